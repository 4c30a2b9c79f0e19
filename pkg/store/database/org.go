package database

import (
	"context"

	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/db/models"
	"github.com/taskhive/taskhive/pkg/store"
)

var _ store.OrgStore = (*orgStore)(nil)

type orgStore struct{}

// CreateOrg implements store.OrgStore.
func (*orgStore) CreateOrg(ctx context.Context, h db.Handler, name, slug, email string) (models.Organization, error) {
	query := h.Rebind(`
		INSERT INTO
		  organizations (name, slug, contact_email)
		VALUES
		  (?, ?, ?) RETURNING id;
	`)

	var id int64
	if err := h.GetContext(ctx, &id, query, name, slug, email); err != nil {
		return models.Organization{}, err
	}

	var m models.Organization
	if err := h.GetContext(ctx, &m, h.Rebind(`SELECT * FROM organizations WHERE id = ?`), id); err != nil {
		return models.Organization{}, err
	}

	return m, nil
}

// ListOrgs implements store.OrgStore.
func (*orgStore) ListOrgs(ctx context.Context, h db.Handler) ([]models.Organization, error) {
	var m []models.Organization
	query := h.Rebind(`
		SELECT
		  *
		FROM
		  organizations
		ORDER BY
		  name ASC;
	`)
	err := h.SelectContext(ctx, &m, query)
	return m, err
}

// FindOrgBySlug implements store.OrgStore.
func (*orgStore) FindOrgBySlug(ctx context.Context, h db.Handler, slug string) (models.Organization, error) {
	var m models.Organization
	query := h.Rebind(`SELECT * FROM organizations WHERE slug = ?;`)
	err := h.GetContext(ctx, &m, query, slug)
	return m, err
}

// FindOrgByName implements store.OrgStore.
func (*orgStore) FindOrgByName(ctx context.Context, h db.Handler, name string) (models.Organization, error) {
	var m models.Organization
	query := h.Rebind(`SELECT * FROM organizations WHERE name = ?;`)
	err := h.GetContext(ctx, &m, query, name)
	return m, err
}

// DeleteOrgByID implements store.OrgStore. Projects, tasks, and comments
// owned by the organization are removed by the cascading foreign keys.
func (*orgStore) DeleteOrgByID(ctx context.Context, h db.Handler, id int64) error {
	query := h.Rebind(`DELETE FROM organizations WHERE id = ?;`)
	r, err := h.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if n, err := r.RowsAffected(); err == nil && n == 0 {
		return db.ErrRecordNotFound
	}
	return nil
}

// CountOrgProjects implements store.OrgStore.
func (*orgStore) CountOrgProjects(ctx context.Context, h db.Handler, org int64) (int64, error) {
	var count int64
	query := h.Rebind(`SELECT COUNT(*) FROM projects WHERE organization_id = ?;`)
	err := h.GetContext(ctx, &count, query, org)
	return count, err
}

// CountOrgTasks implements store.OrgStore.
func (*orgStore) CountOrgTasks(ctx context.Context, h db.Handler, org int64) (int64, error) {
	var count int64
	query := h.Rebind(`
		SELECT
		  COUNT(*)
		FROM
		  tasks t
		  JOIN projects p ON p.id = t.project_id
		WHERE
		  p.organization_id = ?;
	`)
	err := h.GetContext(ctx, &count, query, org)
	return count, err
}

// CountOrgCompletedTasks implements store.OrgStore.
func (*orgStore) CountOrgCompletedTasks(ctx context.Context, h db.Handler, org int64) (int64, error) {
	var count int64
	query := h.Rebind(`
		SELECT
		  COUNT(*)
		FROM
		  tasks t
		  JOIN projects p ON p.id = t.project_id
		WHERE
		  p.organization_id = ?
		  AND t.status = ?;
	`)
	err := h.GetContext(ctx, &count, query, org, models.TaskDone)
	return count, err
}
