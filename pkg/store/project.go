package store

import (
	"context"

	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/db/models"
	"github.com/taskhive/taskhive/pkg/proto"
)

// ProjectStore is a store for projects. Every operation is scoped to an
// owning organization; an id that exists under another organization is
// treated as not found.
type ProjectStore interface {
	CreateProject(ctx context.Context, h db.Handler, org int64, p proto.NewProject) (models.Project, error)
	GetProjectByID(ctx context.Context, h db.Handler, org, id int64) (models.Project, error)
	ListProjects(ctx context.Context, h db.Handler, org int64, opts proto.ProjectListOptions) ([]models.Project, error)
	UpdateProject(ctx context.Context, h db.Handler, org, id int64, patch proto.ProjectPatch) (models.Project, error)
	DeleteProjectByID(ctx context.Context, h db.Handler, org, id int64) error
	CountProjectTasks(ctx context.Context, h db.Handler, project int64) (int64, error)
	CountProjectCompletedTasks(ctx context.Context, h db.Handler, project int64) (int64, error)
}
