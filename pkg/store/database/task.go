package database

import (
	"context"
	"strings"

	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/db/models"
	"github.com/taskhive/taskhive/pkg/proto"
	"github.com/taskhive/taskhive/pkg/store"
)

var _ store.TaskStore = (*taskStore)(nil)

type taskStore struct{}

// taskOrderColumns is the whitelist of order-by fields for tasks.
var taskOrderColumns = map[string]string{
	"title":      "title",
	"status":     "status",
	"priority":   "priority",
	"due_date":   "due_date",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// CreateTask implements store.TaskStore.
func (*taskStore) CreateTask(ctx context.Context, h db.Handler, project int64, t proto.NewTask) (models.Task, error) {
	query := h.Rebind(`
		INSERT INTO
		  tasks (
		    project_id,
		    title,
		    description,
		    status,
		    priority,
		    assignee_email,
		    due_date
		  )
		VALUES
		  (?, ?, ?, ?, ?, ?, ?) RETURNING id;
	`)

	var id int64
	if err := h.GetContext(ctx, &id, query, project, t.Title, t.Description, t.Status, t.Priority, t.AssigneeEmail, t.DueDate); err != nil {
		return models.Task{}, err
	}

	var m models.Task
	if err := h.GetContext(ctx, &m, h.Rebind(`SELECT * FROM tasks WHERE id = ?`), id); err != nil {
		return models.Task{}, err
	}

	return m, nil
}

// GetTaskByID implements store.TaskStore. The task must belong to a project
// owned by the given organization.
func (*taskStore) GetTaskByID(ctx context.Context, h db.Handler, org, id int64) (models.Task, error) {
	var m models.Task
	query := h.Rebind(`
		SELECT
		  t.*
		FROM
		  tasks t
		  JOIN projects p ON p.id = t.project_id
		WHERE
		  t.id = ?
		  AND p.organization_id = ?;
	`)
	err := h.GetContext(ctx, &m, query, id, org)
	return m, err
}

// ListTasks implements store.TaskStore.
func (*taskStore) ListTasks(ctx context.Context, h db.Handler, project int64, opts proto.TaskListOptions) ([]models.Task, error) {
	where := []string{"project_id = ?"}
	args := []interface{}{project}

	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, opts.Status)
	}

	if opts.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, opts.Priority)
	}

	if opts.AssigneeEmail != "" {
		where = append(where, `LOWER(assignee_email) LIKE LOWER(?) ESCAPE '\'`)
		args = append(args, "%"+escapeLike(opts.AssigneeEmail)+"%")
	}

	if opts.Search != "" {
		pattern := "%" + escapeLike(opts.Search) + "%"
		where = append(where, `(
		    LOWER(title) LIKE LOWER(?) ESCAPE '\'
		    OR LOWER(description) LIKE LOWER(?) ESCAPE '\'
		    OR LOWER(assignee_email) LIKE LOWER(?) ESCAPE '\'
		  )`)
		args = append(args, pattern, pattern, pattern)
	}

	order, err := orderByClause(opts.OrderBy, taskOrderColumns, "created_at DESC")
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
		  *
		FROM
		  tasks
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

	var m []models.Task
	err = h.SelectContext(ctx, &m, h.Rebind(query), args...)
	return m, err
}

// UpdateTask implements store.TaskStore. Only the fields present in the
// patch are written; updated_at is always refreshed.
func (*taskStore) UpdateTask(ctx context.Context, h db.Handler, org, id int64, patch proto.TaskPatch) (models.Task, error) {
	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []interface{}{}

	if patch.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Status != nil {
		set = append(set, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.Priority != nil {
		set = append(set, "priority = ?")
		args = append(args, *patch.Priority)
	}
	if patch.AssigneeEmail != nil {
		set = append(set, "assignee_email = ?")
		args = append(args, *patch.AssigneeEmail)
	}
	if patch.DueDate != nil {
		set = append(set, "due_date = ?")
		args = append(args, *patch.DueDate)
	}

	// The task must resolve through its project to the organization for
	// the update to apply.
	query := `
		UPDATE tasks
		SET
		  ` + strings.Join(set, ",\n		  ") + `
		WHERE
		  id = ?
		  AND project_id IN (
		    SELECT id FROM projects WHERE organization_id = ?
		  );`
	args = append(args, id, org)

	r, err := h.ExecContext(ctx, h.Rebind(query), args...)
	if err != nil {
		return models.Task{}, err
	}
	if n, err := r.RowsAffected(); err == nil && n == 0 {
		return models.Task{}, db.ErrRecordNotFound
	}

	var m models.Task
	err = h.GetContext(ctx, &m, h.Rebind(`SELECT * FROM tasks WHERE id = ?`), id)
	return m, err
}

// DeleteTaskByID implements store.TaskStore. Comments under the task are
// removed by the cascading foreign key.
func (*taskStore) DeleteTaskByID(ctx context.Context, h db.Handler, org, id int64) error {
	query := h.Rebind(`
		DELETE FROM tasks
		WHERE
		  id = ?
		  AND project_id IN (
		    SELECT id FROM projects WHERE organization_id = ?
		  );
	`)
	r, err := h.ExecContext(ctx, query, id, org)
	if err != nil {
		return err
	}
	if n, err := r.RowsAffected(); err == nil && n == 0 {
		return db.ErrRecordNotFound
	}
	return nil
}

// CountTaskComments implements store.TaskStore.
func (*taskStore) CountTaskComments(ctx context.Context, h db.Handler, task int64) (int64, error) {
	var count int64
	query := h.Rebind(`SELECT COUNT(*) FROM task_comments WHERE task_id = ?;`)
	err := h.GetContext(ctx, &count, query, task)
	return count, err
}
