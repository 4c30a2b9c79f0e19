package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/taskhive/taskhive/pkg/backend"
	"github.com/taskhive/taskhive/pkg/db/models"
	"github.com/taskhive/taskhive/pkg/proto"
)

// apiRequest is the envelope of an API call: a named operation and its
// variables.
type apiRequest struct {
	Operation string          `json:"operation"`
	Variables json.RawMessage `json:"variables"`
}

type apiError struct {
	Message string `json:"message"`
}

type apiResponse struct {
	Data   map[string]interface{} `json:"data,omitempty"`
	Errors []apiError             `json:"errors,omitempty"`
}

// APIController registers the API route for the web server.
func APIController(_ context.Context, r *mux.Router) {
	r.HandleFunc("/api", postAPI).Methods(http.MethodPost)
}

// postAPI decodes the operation envelope and dispatches it to the backend.
// Every operation responds 200 with either a data payload keyed by the
// operation name or a list of errors.
func postAPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	be := backend.FromContext(ctx)

	var req apiRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		renderJSON(w, http.StatusBadRequest, apiResponse{
			Errors: []apiError{{Message: "malformed request: " + err.Error()}},
		})
		return
	}

	data, err := dispatch(ctx, be, req)
	apiOperations.WithLabelValues(req.Operation, statusLabel(err)).Inc()
	if err != nil {
		if errors.Is(err, errUnknownOperation) {
			renderJSON(w, http.StatusBadRequest, apiResponse{
				Errors: []apiError{{Message: err.Error()}},
			})
			return
		}
		logger.Error("api operation failed", "operation", req.Operation, "err", err)
		renderJSON(w, http.StatusOK, apiResponse{
			Errors: []apiError{{Message: err.Error()}},
		})
		return
	}

	renderJSON(w, http.StatusOK, apiResponse{
		Data: map[string]interface{}{req.Operation: data},
	})
}

var errUnknownOperation = errors.New("unknown operation")

// dispatch routes a decoded request to the matching backend call. Queries
// return their payload or an error; mutations always return a result
// payload with a success flag.
func dispatch(ctx context.Context, be *backend.Backend, req apiRequest) (interface{}, error) {
	switch req.Operation {
	case "organizations":
		orgs, err := be.Organizations(ctx)
		if err != nil {
			log.FromContext(ctx).Error("failed to list organizations", "err", err)
			return []proto.Organization{}, nil
		}
		return orgs, nil

	case "organization":
		var vars struct {
			Slug string `json:"slug"`
		}
		if err := decodeVars(req.Variables, &vars); err != nil {
			return nil, err
		}
		org, err := be.Organization(ctx, vars.Slug)
		if errors.Is(err, proto.ErrOrgNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return org, nil

	case "projects":
		var vars struct {
			OrganizationSlug string `json:"organizationSlug"`
			Status           string `json:"status"`
			Search           string `json:"search"`
			OrderBy          string `json:"orderBy"`
			Limit            int    `json:"limit"`
			Offset           int    `json:"offset"`
		}
		if err := decodeVars(req.Variables, &vars); err != nil {
			return nil, err
		}
		projects, err := be.Projects(ctx, vars.OrganizationSlug, proto.ProjectListOptions{
			Status:  models.ProjectStatus(vars.Status),
			Search:  vars.Search,
			OrderBy: vars.OrderBy,
			Limit:   vars.Limit,
			Offset:  vars.Offset,
		})
		if err != nil {
			log.FromContext(ctx).Error("failed to list projects", "err", err)
			return []proto.Project{}, nil
		}
		return projects, nil

	case "project":
		var vars struct {
			OrganizationSlug string `json:"organizationSlug"`
			ID               int64  `json:"id"`
		}
		if err := decodeVars(req.Variables, &vars); err != nil {
			return nil, err
		}
		project, err := be.Project(ctx, vars.OrganizationSlug, vars.ID)
		if errors.Is(err, proto.ErrProjectNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return project, nil

	case "tasks":
		var vars struct {
			OrganizationSlug string `json:"organizationSlug"`
			ProjectID        int64  `json:"projectId"`
			Status           string `json:"status"`
			Priority         string `json:"priority"`
			AssigneeEmail    string `json:"assigneeEmail"`
			Search           string `json:"search"`
			OrderBy          string `json:"orderBy"`
			Limit            int    `json:"limit"`
			Offset           int    `json:"offset"`
		}
		if err := decodeVars(req.Variables, &vars); err != nil {
			return nil, err
		}
		tasks, err := be.Tasks(ctx, vars.OrganizationSlug, vars.ProjectID, proto.TaskListOptions{
			Status:        models.TaskStatus(vars.Status),
			Priority:      models.TaskPriority(vars.Priority),
			AssigneeEmail: vars.AssigneeEmail,
			Search:        vars.Search,
			OrderBy:       vars.OrderBy,
			Limit:         vars.Limit,
			Offset:        vars.Offset,
		})
		if err != nil {
			log.FromContext(ctx).Error("failed to list tasks", "err", err)
			return []proto.Task{}, nil
		}
		return tasks, nil

	case "task":
		var vars struct {
			OrganizationSlug string `json:"organizationSlug"`
			ID               int64  `json:"id"`
		}
		if err := decodeVars(req.Variables, &vars); err != nil {
			return nil, err
		}
		task, err := be.Task(ctx, vars.OrganizationSlug, vars.ID)
		if errors.Is(err, proto.ErrTaskNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return task, nil

	case "taskComments":
		var vars struct {
			OrganizationSlug string `json:"organizationSlug"`
			TaskID           int64  `json:"taskId"`
		}
		if err := decodeVars(req.Variables, &vars); err != nil {
			return nil, err
		}
		comments, err := be.TaskComments(ctx, vars.OrganizationSlug, vars.TaskID)
		if err != nil {
			log.FromContext(ctx).Error("failed to list comments", "err", err)
			return []models.TaskComment{}, nil
		}
		return comments, nil

	case "createOrganization":
		var vars struct {
			Name         string `json:"name"`
			ContactEmail string `json:"contactEmail"`
		}
		if err := decodeVars(req.Variables, &vars); err != nil {
			return nil, err
		}
		return be.CreateOrganization(ctx, vars.Name, vars.ContactEmail), nil

	case "deleteOrganization":
		var vars struct {
			Slug string `json:"slug"`
		}
		if err := decodeVars(req.Variables, &vars); err != nil {
			return nil, err
		}
		return be.DeleteOrganization(ctx, vars.Slug), nil

	case "createProject":
		var vars struct {
			OrganizationSlug string  `json:"organizationSlug"`
			Name             string  `json:"name"`
			Description      string  `json:"description"`
			Status           string  `json:"status"`
			DueDate          *string `json:"dueDate"`
		}
		if err := decodeVars(req.Variables, &vars); err != nil {
			return nil, err
		}
		due, err := parseDueDate(vars.DueDate)
		if err != nil {
			return proto.ProjectResult{Message: err.Error()}, nil
		}
		return be.CreateProject(ctx, vars.OrganizationSlug, proto.NewProject{
			Name:        vars.Name,
			Description: vars.Description,
			Status:      models.ProjectStatus(vars.Status),
			DueDate:     due,
		}), nil

	case "updateProject":
		var vars struct {
			OrganizationSlug string  `json:"organizationSlug"`
			ID               int64   `json:"id"`
			Name             *string `json:"name"`
			Description      *string `json:"description"`
			Status           *string `json:"status"`
			DueDate          *string `json:"dueDate"`
		}
		if err := decodeVars(req.Variables, &vars); err != nil {
			return nil, err
		}
		due, err := parseDueDate(vars.DueDate)
		if err != nil {
			return proto.ProjectResult{Message: err.Error()}, nil
		}
		patch := proto.ProjectPatch{
			Name:        vars.Name,
			Description: vars.Description,
			DueDate:     due,
		}
		if vars.Status != nil {
			status := models.ProjectStatus(*vars.Status)
			patch.Status = &status
		}
		return be.UpdateProject(ctx, vars.OrganizationSlug, vars.ID, patch), nil

	case "deleteProject":
		var vars struct {
			OrganizationSlug string `json:"organizationSlug"`
			ID               int64  `json:"id"`
		}
		if err := decodeVars(req.Variables, &vars); err != nil {
			return nil, err
		}
		return be.DeleteProject(ctx, vars.OrganizationSlug, vars.ID), nil

	case "createTask":
		var vars struct {
			OrganizationSlug string  `json:"organizationSlug"`
			ProjectID        int64   `json:"projectId"`
			Title            string  `json:"title"`
			Description      string  `json:"description"`
			Status           string  `json:"status"`
			Priority         string  `json:"priority"`
			AssigneeEmail    string  `json:"assigneeEmail"`
			DueDate          *string `json:"dueDate"`
		}
		if err := decodeVars(req.Variables, &vars); err != nil {
			return nil, err
		}
		due, err := parseDueDate(vars.DueDate)
		if err != nil {
			return proto.TaskResult{Message: err.Error()}, nil
		}
		return be.CreateTask(ctx, vars.OrganizationSlug, vars.ProjectID, proto.NewTask{
			Title:         vars.Title,
			Description:   vars.Description,
			Status:        models.TaskStatus(vars.Status),
			Priority:      models.TaskPriority(vars.Priority),
			AssigneeEmail: vars.AssigneeEmail,
			DueDate:       due,
		}), nil

	case "updateTask":
		var vars struct {
			OrganizationSlug string  `json:"organizationSlug"`
			ID               int64   `json:"id"`
			Title            *string `json:"title"`
			Description      *string `json:"description"`
			Status           *string `json:"status"`
			Priority         *string `json:"priority"`
			AssigneeEmail    *string `json:"assigneeEmail"`
			DueDate          *string `json:"dueDate"`
		}
		if err := decodeVars(req.Variables, &vars); err != nil {
			return nil, err
		}
		due, err := parseDueDate(vars.DueDate)
		if err != nil {
			return proto.TaskResult{Message: err.Error()}, nil
		}
		patch := proto.TaskPatch{
			Title:         vars.Title,
			Description:   vars.Description,
			AssigneeEmail: vars.AssigneeEmail,
			DueDate:       due,
		}
		if vars.Status != nil {
			status := models.TaskStatus(*vars.Status)
			patch.Status = &status
		}
		if vars.Priority != nil {
			priority := models.TaskPriority(*vars.Priority)
			patch.Priority = &priority
		}
		return be.UpdateTask(ctx, vars.OrganizationSlug, vars.ID, patch), nil

	case "deleteTask":
		var vars struct {
			OrganizationSlug string `json:"organizationSlug"`
			ID               int64  `json:"id"`
		}
		if err := decodeVars(req.Variables, &vars); err != nil {
			return nil, err
		}
		return be.DeleteTask(ctx, vars.OrganizationSlug, vars.ID), nil

	case "createTaskComment":
		var vars struct {
			OrganizationSlug string `json:"organizationSlug"`
			TaskID           int64  `json:"taskId"`
			Content          string `json:"content"`
			AuthorEmail      string `json:"authorEmail"`
		}
		if err := decodeVars(req.Variables, &vars); err != nil {
			return nil, err
		}
		return be.CreateTaskComment(ctx, vars.OrganizationSlug, vars.TaskID, vars.Content, vars.AuthorEmail), nil
	}

	return nil, fmt.Errorf("%w %q", errUnknownOperation, req.Operation)
}

func decodeVars(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("malformed variables: %w", err)
	}
	return nil
}

// parseDueDate accepts RFC 3339 timestamps and bare dates.
func parseDueDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid due date %q", *s)
}
