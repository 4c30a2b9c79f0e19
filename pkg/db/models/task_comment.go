package models

import "time"

// TaskComment is a database model for a comment on a task.
type TaskComment struct {
	ID          int64     `db:"id" json:"id"`
	TaskID      int64     `db:"task_id" json:"taskId"`
	Content     string    `db:"content" json:"content"`
	AuthorEmail string    `db:"author_email" json:"authorEmail"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
