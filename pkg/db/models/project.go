package models

import (
	"fmt"
	"time"
)

// ProjectStatus is the status of a project.
type ProjectStatus string

// Project statuses.
const (
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectOnHold    ProjectStatus = "ON_HOLD"
	ProjectCancelled ProjectStatus = "CANCELLED"
)

// Validate returns an error if the status is not a known project status.
func (s ProjectStatus) Validate() error {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectOnHold, ProjectCancelled:
		return nil
	}
	return fmt.Errorf("invalid project status %q", string(s))
}

// Project is a database model for a project. A project belongs to exactly
// one organization and (organization, name) is unique.
type Project struct {
	ID             int64         `db:"id" json:"id"`
	OrganizationID int64         `db:"organization_id" json:"organizationId"`
	Name           string        `db:"name" json:"name"`
	Description    string        `db:"description" json:"description"`
	Status         ProjectStatus `db:"status" json:"status"`
	DueDate        *time.Time    `db:"due_date" json:"dueDate"`
	CreatedAt      time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updatedAt"`
}
