package store

import (
	"context"

	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/db/models"
	"github.com/taskhive/taskhive/pkg/proto"
)

// TaskStore is a store for tasks. Lookups by id are scoped to an owning
// organization through the task's project.
type TaskStore interface {
	CreateTask(ctx context.Context, h db.Handler, project int64, t proto.NewTask) (models.Task, error)
	GetTaskByID(ctx context.Context, h db.Handler, org, id int64) (models.Task, error)
	ListTasks(ctx context.Context, h db.Handler, project int64, opts proto.TaskListOptions) ([]models.Task, error)
	UpdateTask(ctx context.Context, h db.Handler, org, id int64, patch proto.TaskPatch) (models.Task, error)
	DeleteTaskByID(ctx context.Context, h db.Handler, org, id int64) error
	CountTaskComments(ctx context.Context, h db.Handler, task int64) (int64, error)
}
