package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matryer/is"
	"github.com/taskhive/taskhive/pkg/backend"
	"github.com/taskhive/taskhive/pkg/config"
	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/db/migrate"
	"github.com/taskhive/taskhive/pkg/store"
	"github.com/taskhive/taskhive/pkg/store/database"
	"github.com/taskhive/taskhive/pkg/test"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	is := is.New(t)

	cfg := config.DefaultConfig()
	cfg.DataPath = t.TempDir()
	ctx := config.WithContext(context.TODO(), cfg)

	dbx, err := test.OpenSqlite(ctx, t)
	is.NoErr(err)
	is.NoErr(migrate.Migrate(ctx, dbx))
	ctx = db.WithContext(ctx, dbx)

	datastore := database.New(ctx, dbx)
	ctx = store.WithContext(ctx, datastore)

	be := backend.New(ctx, cfg, dbx, datastore)
	ctx = backend.WithContext(ctx, be)

	srv := httptest.NewServer(NewRouter(ctx))
	t.Cleanup(srv.Close)
	return srv
}

func doOperation(t *testing.T, srv *httptest.Server, operation string, variables map[string]interface{}) (int, apiResponse) {
	t.Helper()
	is := is.New(t)

	body, err := json.Marshal(map[string]interface{}{
		"operation": operation,
		"variables": variables,
	})
	is.NoErr(err)

	resp, err := srv.Client().Post(srv.URL+"/api", "application/json", bytes.NewReader(body))
	is.NoErr(err)
	defer resp.Body.Close() //nolint:errcheck

	var out apiResponse
	is.NoErr(json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestAPIRoundtrip(t *testing.T) {
	srv := setupServer(t)
	is := is.New(t)

	code, resp := doOperation(t, srv, "createOrganization", map[string]interface{}{
		"name":         "ACME Rockets",
		"contactEmail": "contact@acme.example",
	})
	is.Equal(code, http.StatusOK)
	result, ok := resp.Data["createOrganization"].(map[string]interface{})
	is.True(ok)
	is.Equal(result["success"], true)
	is.Equal(result["message"], "Organization created successfully")

	code, resp = doOperation(t, srv, "organizations", nil)
	is.Equal(code, http.StatusOK)
	orgs, ok := resp.Data["organizations"].([]interface{})
	is.True(ok)
	is.Equal(len(orgs), 1)
	org, ok := orgs[0].(map[string]interface{})
	is.True(ok)
	is.Equal(org["slug"], "acme-rockets")
	is.Equal(org["projectCount"], float64(0))
}

func TestAPIProjectLifecycle(t *testing.T) {
	srv := setupServer(t)
	is := is.New(t)

	_, _ = doOperation(t, srv, "createOrganization", map[string]interface{}{
		"name":         "acme",
		"contactEmail": "acme@example.com",
	})

	code, resp := doOperation(t, srv, "createProject", map[string]interface{}{
		"organizationSlug": "acme",
		"name":             "Rocket",
		"dueDate":          "2026-12-31",
	})
	is.Equal(code, http.StatusOK)
	result, ok := resp.Data["createProject"].(map[string]interface{})
	is.True(ok)
	is.Equal(result["success"], true)
	project, ok := result["project"].(map[string]interface{})
	is.True(ok)
	is.Equal(project["status"], "ACTIVE")
	id := project["id"].(float64)

	code, resp = doOperation(t, srv, "updateProject", map[string]interface{}{
		"organizationSlug": "acme",
		"id":               id,
		"status":           "COMPLETED",
	})
	is.Equal(code, http.StatusOK)
	result, ok = resp.Data["updateProject"].(map[string]interface{})
	is.True(ok)
	is.Equal(result["success"], true)
	project, ok = result["project"].(map[string]interface{})
	is.True(ok)
	is.Equal(project["status"], "COMPLETED")
	is.Equal(project["name"], "Rocket")

	// A mutation failure still responds 200 with a failed result.
	code, resp = doOperation(t, srv, "createProject", map[string]interface{}{
		"organizationSlug": "nope",
		"name":             "Rocket",
	})
	is.Equal(code, http.StatusOK)
	result, ok = resp.Data["createProject"].(map[string]interface{})
	is.True(ok)
	is.Equal(result["success"], false)
	is.Equal(result["message"], "Organization not found")
}

func TestAPITenantIsolation(t *testing.T) {
	srv := setupServer(t)
	is := is.New(t)

	_, _ = doOperation(t, srv, "createOrganization", map[string]interface{}{
		"name": "acme", "contactEmail": "acme@example.com",
	})
	_, _ = doOperation(t, srv, "createOrganization", map[string]interface{}{
		"name": "globex", "contactEmail": "globex@example.com",
	})
	_, resp := doOperation(t, srv, "createProject", map[string]interface{}{
		"organizationSlug": "acme", "name": "Rocket",
	})
	project := resp.Data["createProject"].(map[string]interface{})["project"].(map[string]interface{})
	id := project["id"].(float64)

	// The wrong tenant resolves the project to null.
	code, resp := doOperation(t, srv, "project", map[string]interface{}{
		"organizationSlug": "globex", "id": id,
	})
	is.Equal(code, http.StatusOK)
	is.Equal(resp.Data["project"], nil)

	// And its listings are empty.
	code, resp = doOperation(t, srv, "projects", map[string]interface{}{
		"organizationSlug": "globex",
	})
	is.Equal(code, http.StatusOK)
	projects, ok := resp.Data["projects"].([]interface{})
	is.True(ok)
	is.Equal(len(projects), 0)
}

func TestAPIUnknownOperation(t *testing.T) {
	srv := setupServer(t)
	is := is.New(t)

	code, resp := doOperation(t, srv, "dropAllTables", nil)
	is.Equal(code, http.StatusBadRequest)
	is.Equal(len(resp.Errors), 1)
}

func TestHealthRoutes(t *testing.T) {
	srv := setupServer(t)
	is := is.New(t)

	resp, err := srv.Client().Get(srv.URL + "/livez")
	is.NoErr(err)
	resp.Body.Close() //nolint:errcheck
	is.Equal(resp.StatusCode, http.StatusOK)

	resp, err = srv.Client().Get(srv.URL + "/readyz")
	is.NoErr(err)
	resp.Body.Close() //nolint:errcheck
	is.Equal(resp.StatusCode, http.StatusOK)

	resp, err = srv.Client().Get(srv.URL + "/nope")
	is.NoErr(err)
	resp.Body.Close() //nolint:errcheck
	is.Equal(resp.StatusCode, http.StatusNotFound)
}
