package proto

import "errors"

var (
	// ErrOrgNotFound is returned when an organization does not exist or the
	// tenant slug does not resolve.
	ErrOrgNotFound = errors.New("organization not found")

	// ErrProjectNotFound is returned when a project does not exist under
	// the requested organization.
	ErrProjectNotFound = errors.New("project not found")

	// ErrTaskNotFound is returned when a task does not exist under the
	// requested organization.
	ErrTaskNotFound = errors.New("task not found")
)
