package models

import "time"

// Organization represents a tenant in the system. Every project, task, and
// comment is owned, directly or transitively, by exactly one organization.
type Organization struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Slug         string    `db:"slug" json:"slug"`
	ContactEmail string    `db:"contact_email" json:"contactEmail"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
