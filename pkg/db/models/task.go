package models

import (
	"fmt"
	"time"
)

// TaskStatus is the status of a task.
type TaskStatus string

// Task statuses.
const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
	TaskBlocked    TaskStatus = "BLOCKED"
)

// Validate returns an error if the status is not a known task status.
func (s TaskStatus) Validate() error {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone, TaskBlocked:
		return nil
	}
	return fmt.Errorf("invalid task status %q", string(s))
}

// TaskPriority is the priority of a task.
type TaskPriority string

// Task priorities.
const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// Validate returns an error if the priority is not a known task priority.
func (p TaskPriority) Validate() error {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return nil
	}
	return fmt.Errorf("invalid task priority %q", string(p))
}

// Task is a database model for a task. A task belongs to exactly one
// project.
type Task struct {
	ID            int64        `db:"id" json:"id"`
	ProjectID     int64        `db:"project_id" json:"projectId"`
	Title         string       `db:"title" json:"title"`
	Description   string       `db:"description" json:"description"`
	Status        TaskStatus   `db:"status" json:"status"`
	Priority      TaskPriority `db:"priority" json:"priority"`
	AssigneeEmail string       `db:"assignee_email" json:"assigneeEmail"`
	DueDate       *time.Time   `db:"due_date" json:"dueDate"`
	CreatedAt     time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updatedAt"`
}
