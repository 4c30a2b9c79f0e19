package store

import (
	"context"

	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/db/models"
)

// OrgStore is a store for organizations.
type OrgStore interface {
	CreateOrg(ctx context.Context, h db.Handler, name, slug, email string) (models.Organization, error)
	ListOrgs(ctx context.Context, h db.Handler) ([]models.Organization, error)
	FindOrgBySlug(ctx context.Context, h db.Handler, slug string) (models.Organization, error)
	FindOrgByName(ctx context.Context, h db.Handler, name string) (models.Organization, error)
	DeleteOrgByID(ctx context.Context, h db.Handler, id int64) error
	CountOrgProjects(ctx context.Context, h db.Handler, org int64) (int64, error)
	CountOrgTasks(ctx context.Context, h db.Handler, org int64) (int64, error)
	CountOrgCompletedTasks(ctx context.Context, h db.Handler, org int64) (int64, error)
}
