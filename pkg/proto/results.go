package proto

import "github.com/taskhive/taskhive/pkg/db/models"

// Every mutation returns a uniform result: a success flag, a
// human-readable message, and the affected entity (nil on failure). No
// mutation propagates an error past the backend boundary.

// OrgResult is the result of an organization mutation.
type OrgResult struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	Organization *Organization `json:"organization"`
}

// ProjectResult is the result of a project mutation.
type ProjectResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Project *Project `json:"project"`
}

// TaskResult is the result of a task mutation.
type TaskResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Task    *Task  `json:"task"`
}

// CommentResult is the result of a comment mutation.
type CommentResult struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Comment *models.TaskComment `json:"comment"`
}
