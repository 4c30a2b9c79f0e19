package database

import (
	"context"
	"strings"

	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/db/models"
	"github.com/taskhive/taskhive/pkg/proto"
	"github.com/taskhive/taskhive/pkg/store"
)

var _ store.ProjectStore = (*projectStore)(nil)

type projectStore struct{}

// projectOrderColumns is the whitelist of order-by fields for projects.
var projectOrderColumns = map[string]string{
	"name":       "name",
	"status":     "status",
	"due_date":   "due_date",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// CreateProject implements store.ProjectStore.
func (*projectStore) CreateProject(ctx context.Context, h db.Handler, org int64, p proto.NewProject) (models.Project, error) {
	query := h.Rebind(`
		INSERT INTO
		  projects (organization_id, name, description, status, due_date)
		VALUES
		  (?, ?, ?, ?, ?) RETURNING id;
	`)

	var id int64
	if err := h.GetContext(ctx, &id, query, org, p.Name, p.Description, p.Status, p.DueDate); err != nil {
		return models.Project{}, err
	}

	var m models.Project
	if err := h.GetContext(ctx, &m, h.Rebind(`SELECT * FROM projects WHERE id = ?`), id); err != nil {
		return models.Project{}, err
	}

	return m, nil
}

// GetProjectByID implements store.ProjectStore.
func (*projectStore) GetProjectByID(ctx context.Context, h db.Handler, org, id int64) (models.Project, error) {
	var m models.Project
	query := h.Rebind(`
		SELECT
		  *
		FROM
		  projects
		WHERE
		  id = ?
		  AND organization_id = ?;
	`)
	err := h.GetContext(ctx, &m, query, id, org)
	return m, err
}

// ListProjects implements store.ProjectStore.
func (*projectStore) ListProjects(ctx context.Context, h db.Handler, org int64, opts proto.ProjectListOptions) ([]models.Project, error) {
	where := []string{"organization_id = ?"}
	args := []interface{}{org}

	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, opts.Status)
	}

	if opts.Search != "" {
		pattern := "%" + escapeLike(opts.Search) + "%"
		where = append(where, `(
		    LOWER(name) LIKE LOWER(?) ESCAPE '\'
		    OR LOWER(description) LIKE LOWER(?) ESCAPE '\'
		  )`)
		args = append(args, pattern, pattern)
	}

	order, err := orderByClause(opts.OrderBy, projectOrderColumns, "created_at DESC")
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
		  *
		FROM
		  projects
		WHERE
		  ` + strings.Join(where, "\n		  AND ") + `
		ORDER BY
		  ` + order + `, id DESC`

	limit := int64(opts.Limit)
	if limit <= 0 {
		limit = allRows
	}
	query += "\n		LIMIT ? OFFSET ?;"
	args = append(args, limit, opts.Offset)

	var m []models.Project
	err = h.SelectContext(ctx, &m, h.Rebind(query), args...)
	return m, err
}

// UpdateProject implements store.ProjectStore. Only the fields present in
// the patch are written; updated_at is always refreshed.
func (*projectStore) UpdateProject(ctx context.Context, h db.Handler, org, id int64, patch proto.ProjectPatch) (models.Project, error) {
	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []interface{}{}

	if patch.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Status != nil {
		set = append(set, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.DueDate != nil {
		set = append(set, "due_date = ?")
		args = append(args, *patch.DueDate)
	}

	query := `
		UPDATE projects
		SET
		  ` + strings.Join(set, ",\n		  ") + `
		WHERE
		  id = ?
		  AND organization_id = ?;`
	args = append(args, id, org)

	r, err := h.ExecContext(ctx, h.Rebind(query), args...)
	if err != nil {
		return models.Project{}, err
	}
	if n, err := r.RowsAffected(); err == nil && n == 0 {
		return models.Project{}, db.ErrRecordNotFound
	}

	var m models.Project
	err = h.GetContext(ctx, &m, h.Rebind(`SELECT * FROM projects WHERE id = ?`), id)
	return m, err
}

// DeleteProjectByID implements store.ProjectStore. Tasks and comments under
// the project are removed by the cascading foreign keys.
func (*projectStore) DeleteProjectByID(ctx context.Context, h db.Handler, org, id int64) error {
	query := h.Rebind(`DELETE FROM projects WHERE id = ? AND organization_id = ?;`)
	r, err := h.ExecContext(ctx, query, id, org)
	if err != nil {
		return err
	}
	if n, err := r.RowsAffected(); err == nil && n == 0 {
		return db.ErrRecordNotFound
	}
	return nil
}

// CountProjectTasks implements store.ProjectStore.
func (*projectStore) CountProjectTasks(ctx context.Context, h db.Handler, project int64) (int64, error) {
	var count int64
	query := h.Rebind(`SELECT COUNT(*) FROM tasks WHERE project_id = ?;`)
	err := h.GetContext(ctx, &count, query, project)
	return count, err
}

// CountProjectCompletedTasks implements store.ProjectStore.
func (*projectStore) CountProjectCompletedTasks(ctx context.Context, h db.Handler, project int64) (int64, error) {
	var count int64
	query := h.Rebind(`SELECT COUNT(*) FROM tasks WHERE project_id = ? AND status = ?;`)
	err := h.GetContext(ctx, &count, query, project, models.TaskDone)
	return count, err
}
