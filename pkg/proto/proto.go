// Package proto defines the domain contract between the stores, the
// backend, and the API surface.
package proto

import (
	"time"

	"github.com/taskhive/taskhive/pkg/db/models"
)

// Organization is an organization together with its derived statistics.
// The statistics are computed fresh from the store on every read.
type Organization struct {
	models.Organization
	ProjectCount   int64 `json:"projectCount"`
	TotalTasks     int64 `json:"totalTasks"`
	CompletedTasks int64 `json:"completedTasks"`
}

// Project is a project together with its derived statistics.
type Project struct {
	models.Project
	TaskCount           int64   `json:"taskCount"`
	CompletedTasksCount int64   `json:"completedTasksCount"`
	CompletionRate      float64 `json:"completionRate"`
}

// Task is a task together with its derived statistics.
type Task struct {
	models.Task
	CommentCount int64 `json:"commentCount"`
}

// NewProject holds the caller-supplied fields for creating a project.
type NewProject struct {
	Name        string
	Description string
	Status      models.ProjectStatus
	DueDate     *time.Time
}

// NewTask holds the caller-supplied fields for creating a task.
type NewTask struct {
	Title         string
	Description   string
	Status        models.TaskStatus
	Priority      models.TaskPriority
	AssigneeEmail string
	DueDate       *time.Time
}

// ProjectPatch is a partial update for a project. Nil fields are left
// untouched.
type ProjectPatch struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
	DueDate     *time.Time
}

// Empty returns true if the patch carries no fields.
func (p ProjectPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Status == nil && p.DueDate == nil
}

// TaskPatch is a partial update for a task. Nil fields are left untouched.
type TaskPatch struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssigneeEmail *string
	DueDate       *time.Time
}

// Empty returns true if the patch carries no fields.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.AssigneeEmail == nil && p.DueDate == nil
}

// ProjectListOptions are the filters applied when listing projects. Zero
// values mean "no filter".
type ProjectListOptions struct {
	Status  models.ProjectStatus
	Search  string
	OrderBy string
	Limit   int
	Offset  int
}

// TaskListOptions are the filters applied when listing tasks. Zero values
// mean "no filter".
type TaskListOptions struct {
	Status        models.TaskStatus
	Priority      models.TaskPriority
	AssigneeEmail string
	Search        string
	OrderBy       string
	Limit         int
	Offset        int
}
