// Package store defines the storage interfaces for Taskhive.
package store

// Store is an interface for managing organizations, projects, tasks, and
// comments.
type Store interface {
	OrgStore
	ProjectStore
	TaskStore
	CommentStore
}
