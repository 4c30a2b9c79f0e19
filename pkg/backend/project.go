package backend

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/db/models"
	"github.com/taskhive/taskhive/pkg/proto"
)

// Projects returns the projects of the organization with the given slug,
// filtered and ordered by opts. An unknown slug yields an empty list so a
// tenant cannot distinguish "no access" from "no data".
func (b *Backend) Projects(ctx context.Context, slug string, opts proto.ProjectListOptions) ([]proto.Project, error) {
	if opts.Status != "" {
		if err := opts.Status.Validate(); err != nil {
			return nil, err
		}
	}

	projects := []proto.Project{}
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		org, err := b.store.FindOrgBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}

		ms, err := b.store.ListProjects(ctx, tx, org.ID, opts)
		if err != nil {
			return err
		}

		for _, m := range ms {
			p, err := b.projectStats(ctx, tx, m)
			if err != nil {
				return err
			}
			projects = append(projects, p)
		}

		return nil
	}); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			b.logger.Debug("organization not found", "slug", slug)
			return []proto.Project{}, nil
		}
		return nil, db.WrapError(err)
	}

	return projects, nil
}

// Project returns the project with the given id under the organization with
// the given slug. An id owned by another organization is reported as not
// found.
func (b *Backend) Project(ctx context.Context, slug string, id int64) (proto.Project, error) {
	var project proto.Project
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		org, err := b.store.FindOrgBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}

		m, err := b.store.GetProjectByID(ctx, tx, org.ID, id)
		if err != nil {
			return err
		}

		project, err = b.projectStats(ctx, tx, m)
		return err
	}); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return proto.Project{}, proto.ErrProjectNotFound
		}
		return proto.Project{}, db.WrapError(err)
	}

	return project, nil
}

// CreateProject creates a project under the organization with the given
// slug. The status defaults to ACTIVE.
func (b *Backend) CreateProject(ctx context.Context, slug string, np proto.NewProject) proto.ProjectResult {
	np.Name = strings.TrimSpace(np.Name)
	if np.Name == "" {
		return proto.ProjectResult{Message: "Project name cannot be empty"}
	}

	if np.Status == "" {
		np.Status = models.ProjectActive
	}
	if err := np.Status.Validate(); err != nil {
		return proto.ProjectResult{Message: err.Error()}
	}

	var project proto.Project
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		org, err := b.store.FindOrgBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}

		m, err := b.store.CreateProject(ctx, tx, org.ID, np)
		if err != nil {
			return err
		}

		project, err = b.projectStats(ctx, tx, m)
		return err
	}); err != nil {
		err = db.WrapError(err)
		if errors.Is(err, db.ErrRecordNotFound) {
			return proto.ProjectResult{Message: "Organization not found"}
		}
		if errors.Is(err, db.ErrDuplicateKey) {
			return proto.ProjectResult{Message: "Project with this name already exists in the organization"}
		}
		b.logger.Error("failed to create project", "org", slug, "name", np.Name, "err", err)
		return proto.ProjectResult{Message: err.Error()}
	}

	return proto.ProjectResult{
		Success: true,
		Message: "Project created successfully",
		Project: &project,
	}
}

// UpdateProject applies a partial update to the project with the given id
// under the organization with the given slug. Fields absent from the patch
// keep their stored values.
func (b *Backend) UpdateProject(ctx context.Context, slug string, id int64, patch proto.ProjectPatch) proto.ProjectResult {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return proto.ProjectResult{Message: "Project name cannot be empty"}
		}
		patch.Name = &name
	}
	if patch.Status != nil {
		if err := patch.Status.Validate(); err != nil {
			return proto.ProjectResult{Message: err.Error()}
		}
	}

	var project proto.Project
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		org, err := b.store.FindOrgBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}

		var m models.Project
		if patch.Empty() {
			m, err = b.store.GetProjectByID(ctx, tx, org.ID, id)
		} else {
			m, err = b.store.UpdateProject(ctx, tx, org.ID, id, patch)
		}
		if err != nil {
			return err
		}

		project, err = b.projectStats(ctx, tx, m)
		return err
	}); err != nil {
		err = db.WrapError(err)
		if errors.Is(err, db.ErrRecordNotFound) {
			return proto.ProjectResult{Message: "Project or Organization not found"}
		}
		if errors.Is(err, db.ErrDuplicateKey) {
			return proto.ProjectResult{Message: "Project with this name already exists in the organization"}
		}
		b.logger.Error("failed to update project", "org", slug, "id", id, "err", err)
		return proto.ProjectResult{Message: err.Error()}
	}

	return proto.ProjectResult{
		Success: true,
		Message: "Project updated successfully",
		Project: &project,
	}
}

// DeleteProject removes the project with the given id under the
// organization with the given slug, cascading to its tasks and comments.
func (b *Backend) DeleteProject(ctx context.Context, slug string, id int64) proto.ProjectResult {
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		org, err := b.store.FindOrgBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}

		return b.store.DeleteProjectByID(ctx, tx, org.ID, id)
	}); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return proto.ProjectResult{Message: "Project or Organization not found"}
		}
		b.logger.Error("failed to delete project", "org", slug, "id", id, "err", err)
		return proto.ProjectResult{Message: err.Error()}
	}

	return proto.ProjectResult{
		Success: true,
		Message: "Project deleted successfully",
	}
}

// projectStats attaches the derived statistics to a project model. The
// completion rate is a percentage rounded to two decimal places; a project
// without tasks has a rate of zero.
func (b *Backend) projectStats(ctx context.Context, h db.Handler, m models.Project) (proto.Project, error) {
	total, err := b.store.CountProjectTasks(ctx, h, m.ID)
	if err != nil {
		return proto.Project{}, err
	}

	completed, err := b.store.CountProjectCompletedTasks(ctx, h, m.ID)
	if err != nil {
		return proto.Project{}, err
	}

	var rate float64
	if total > 0 {
		rate = float64(completed) / float64(total) * 100
		rate = math.Round(rate*100) / 100
	}

	return proto.Project{
		Project:             m,
		TaskCount:           total,
		CompletedTasksCount: completed,
		CompletionRate:      rate,
	}, nil
}
