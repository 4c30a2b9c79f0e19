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

// Organizations returns all organizations ordered by name, each with its
// statistics computed fresh from the store.
func (b *Backend) Organizations(ctx context.Context) ([]proto.Organization, error) {
	orgs := []proto.Organization{}
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		ms, err := b.store.ListOrgs(ctx, tx)
		if err != nil {
			return err
		}

		for _, m := range ms {
			org, err := b.orgStats(ctx, tx, m)
			if err != nil {
				return err
			}
			orgs = append(orgs, org)
		}

		return nil
	}); err != nil {
		return nil, db.WrapError(err)
	}

	return orgs, nil
}

// Organization returns the organization with the given slug along with its
// statistics. It returns proto.ErrOrgNotFound if the slug does not resolve.
func (b *Backend) Organization(ctx context.Context, slug string) (proto.Organization, error) {
	var org proto.Organization
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		m, err := b.store.FindOrgBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}

		org, err = b.orgStats(ctx, tx, m)
		return err
	}); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return proto.Organization{}, proto.ErrOrgNotFound
		}
		return proto.Organization{}, db.WrapError(err)
	}

	return org, nil
}

// CreateOrganization creates a new organization. The slug is derived from
// the name and the contact email is normalized to lower case.
func (b *Backend) CreateOrganization(ctx context.Context, name, contactEmail string) proto.OrgResult {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 {
		return proto.OrgResult{Message: "Organization name must be at least 2 characters long"}
	}

	if err := utils.ValidateEmail(contactEmail); err != nil {
		return proto.OrgResult{Message: "Invalid email address"}
	}
	contactEmail = strings.ToLower(strings.TrimSpace(contactEmail))

	var org proto.Organization
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := b.store.FindOrgByName(ctx, tx, name); err == nil {
			return db.ErrDuplicateKey
		} else if !errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return err
		}

		m, err := b.store.CreateOrg(ctx, tx, name, utils.Slugify(name), contactEmail)
		if err != nil {
			return err
		}

		org, err = b.orgStats(ctx, tx, m)
		return err
	}); err != nil {
		if errors.Is(db.WrapError(err), db.ErrDuplicateKey) {
			return proto.OrgResult{Message: "Organization with this name already exists"}
		}
		b.logger.Error("failed to create organization", "name", name, "err", err)
		return proto.OrgResult{Message: "Failed to create organization: " + err.Error()}
	}

	return proto.OrgResult{
		Success:      true,
		Message:      "Organization created successfully",
		Organization: &org,
	}
}

// DeleteOrganization removes the organization with the given slug along
// with all of its projects, tasks, and comments.
func (b *Backend) DeleteOrganization(ctx context.Context, slug string) proto.OrgResult {
	var org proto.Organization
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		m, err := b.store.FindOrgBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}

		org, err = b.orgStats(ctx, tx, m)
		if err != nil {
			return err
		}

		return b.store.DeleteOrgByID(ctx, tx, m.ID)
	}); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return proto.OrgResult{Message: "Organization not found"}
		}
		b.logger.Error("failed to delete organization", "slug", slug, "err", err)
		return proto.OrgResult{Message: "Failed to delete organization: " + err.Error()}
	}

	return proto.OrgResult{
		Success:      true,
		Message:      "Organization deleted successfully",
		Organization: &org,
	}
}

// orgStats attaches the derived statistics to an organization model.
func (b *Backend) orgStats(ctx context.Context, h db.Handler, m models.Organization) (proto.Organization, error) {
	projects, err := b.store.CountOrgProjects(ctx, h, m.ID)
	if err != nil {
		return proto.Organization{}, err
	}

	total, err := b.store.CountOrgTasks(ctx, h, m.ID)
	if err != nil {
		return proto.Organization{}, err
	}

	completed, err := b.store.CountOrgCompletedTasks(ctx, h, m.ID)
	if err != nil {
		return proto.Organization{}, err
	}

	return proto.Organization{
		Organization:   m,
		ProjectCount:   projects,
		TotalTasks:     total,
		CompletedTasks: completed,
	}, nil
}
