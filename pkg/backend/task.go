package backend

import (
	"context"
	"errors"
	"strings"

	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/db/models"
	"github.com/taskhive/taskhive/pkg/proto"
	"github.com/taskhive/taskhive/pkg/utils"
)

// Tasks returns the tasks of the given project under the organization with
// the given slug, filtered and ordered by opts. An unknown slug or a
// project owned by another organization yields an empty list.
func (b *Backend) Tasks(ctx context.Context, slug string, projectID int64, opts proto.TaskListOptions) ([]proto.Task, error) {
	if opts.Status != "" {
		if err := opts.Status.Validate(); err != nil {
			return nil, err
		}
	}
	if opts.Priority != "" {
		if err := opts.Priority.Validate(); err != nil {
			return nil, err
		}
	}

	tasks := []proto.Task{}
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		org, err := b.store.FindOrgBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}

		project, err := b.store.GetProjectByID(ctx, tx, org.ID, projectID)
		if err != nil {
			return err
		}

		ms, err := b.store.ListTasks(ctx, tx, project.ID, opts)
		if err != nil {
			return err
		}

		for _, m := range ms {
			t, err := b.taskStats(ctx, tx, m)
			if err != nil {
				return err
			}
			tasks = append(tasks, t)
		}

		return nil
	}); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			b.logger.Debug("project not found", "org", slug, "project", projectID)
			return []proto.Task{}, nil
		}
		return nil, db.WrapError(err)
	}

	return tasks, nil
}

// Task returns the task with the given id under the organization with the
// given slug. An id reachable only through another organization is
// reported as not found.
func (b *Backend) Task(ctx context.Context, slug string, id int64) (proto.Task, error) {
	var task proto.Task
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		org, err := b.store.FindOrgBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}

		m, err := b.store.GetTaskByID(ctx, tx, org.ID, id)
		if err != nil {
			return err
		}

		task, err = b.taskStats(ctx, tx, m)
		return err
	}); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return proto.Task{}, proto.ErrTaskNotFound
		}
		return proto.Task{}, db.WrapError(err)
	}

	return task, nil
}

// CreateTask creates a task under the given project of the organization
// with the given slug. Status defaults to TODO and priority to MEDIUM.
func (b *Backend) CreateTask(ctx context.Context, slug string, projectID int64, nt proto.NewTask) proto.TaskResult {
	nt.Title = strings.TrimSpace(nt.Title)
	if nt.Title == "" {
		return proto.TaskResult{Message: "Task title cannot be empty"}
	}

	if nt.Status == "" {
		nt.Status = models.TaskTodo
	}
	if err := nt.Status.Validate(); err != nil {
		return proto.TaskResult{Message: err.Error()}
	}

	if nt.Priority == "" {
		nt.Priority = models.PriorityMedium
	}
	if err := nt.Priority.Validate(); err != nil {
		return proto.TaskResult{Message: err.Error()}
	}

	if nt.AssigneeEmail != "" {
		if err := utils.ValidateEmail(nt.AssigneeEmail); err != nil {
			return proto.TaskResult{Message: "Invalid assignee email address"}
		}
		nt.AssigneeEmail = strings.ToLower(strings.TrimSpace(nt.AssigneeEmail))
	}

	var task proto.Task
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		org, err := b.store.FindOrgBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}

		project, err := b.store.GetProjectByID(ctx, tx, org.ID, projectID)
		if err != nil {
			return err
		}

		m, err := b.store.CreateTask(ctx, tx, project.ID, nt)
		if err != nil {
			return err
		}

		task, err = b.taskStats(ctx, tx, m)
		return err
	}); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return proto.TaskResult{Message: "Project or Organization not found"}
		}
		b.logger.Error("failed to create task", "org", slug, "project", projectID, "err", err)
		return proto.TaskResult{Message: err.Error()}
	}

	return proto.TaskResult{
		Success: true,
		Message: "Task created successfully",
		Task:    &task,
	}
}

// UpdateTask applies a partial update to the task with the given id under
// the organization with the given slug. Fields absent from the patch keep
// their stored values; an empty assignee email clears the assignment.
func (b *Backend) UpdateTask(ctx context.Context, slug string, id int64, patch proto.TaskPatch) proto.TaskResult {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return proto.TaskResult{Message: "Task title cannot be empty"}
		}
		patch.Title = &title
	}
	if patch.Status != nil {
		if err := patch.Status.Validate(); err != nil {
			return proto.TaskResult{Message: err.Error()}
		}
	}
	if patch.Priority != nil {
		if err := patch.Priority.Validate(); err != nil {
			return proto.TaskResult{Message: err.Error()}
		}
	}
	if patch.AssigneeEmail != nil && *patch.AssigneeEmail != "" {
		if err := utils.ValidateEmail(*patch.AssigneeEmail); err != nil {
			return proto.TaskResult{Message: "Invalid assignee email address"}
		}
		email := strings.ToLower(strings.TrimSpace(*patch.AssigneeEmail))
		patch.AssigneeEmail = &email
	}

	var task proto.Task
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		org, err := b.store.FindOrgBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}

		var m models.Task
		if patch.Empty() {
			m, err = b.store.GetTaskByID(ctx, tx, org.ID, id)
		} else {
			m, err = b.store.UpdateTask(ctx, tx, org.ID, id, patch)
		}
		if err != nil {
			return err
		}

		task, err = b.taskStats(ctx, tx, m)
		return err
	}); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return proto.TaskResult{Message: "Task or Organization not found"}
		}
		b.logger.Error("failed to update task", "org", slug, "id", id, "err", err)
		return proto.TaskResult{Message: err.Error()}
	}

	return proto.TaskResult{
		Success: true,
		Message: "Task updated successfully",
		Task:    &task,
	}
}

// DeleteTask removes the task with the given id under the organization
// with the given slug, cascading to its comments.
func (b *Backend) DeleteTask(ctx context.Context, slug string, id int64) proto.TaskResult {
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		org, err := b.store.FindOrgBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}

		return b.store.DeleteTaskByID(ctx, tx, org.ID, id)
	}); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return proto.TaskResult{Message: "Task or Organization not found"}
		}
		b.logger.Error("failed to delete task", "org", slug, "id", id, "err", err)
		return proto.TaskResult{Message: err.Error()}
	}

	return proto.TaskResult{
		Success: true,
		Message: "Task deleted successfully",
	}
}

// taskStats attaches the derived statistics to a task model.
func (b *Backend) taskStats(ctx context.Context, h db.Handler, m models.Task) (proto.Task, error) {
	comments, err := b.store.CountTaskComments(ctx, h, m.ID)
	if err != nil {
		return proto.Task{}, err
	}

	return proto.Task{
		Task:         m,
		CommentCount: comments,
	}, nil
}
