// Package backend implements the Taskhive domain logic on top of the
// store. Every query and mutation runs inside a single database
// transaction so reads see a consistent snapshot and writes are atomic
// with their constraint checks.
package backend

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/taskhive/taskhive/pkg/config"
	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/store"
)

// Backend is the Taskhive backend that handles organizations, projects,
// tasks, and comments.
type Backend struct {
	cfg    *config.Config
	db     *db.DB
	store  store.Store
	logger *log.Logger
}

// New returns a new Taskhive backend.
func New(ctx context.Context, cfg *config.Config, db *db.DB, st store.Store) *Backend {
	logger := log.FromContext(ctx).WithPrefix("backend")
	return &Backend{
		cfg:    cfg,
		db:     db,
		store:  st,
		logger: logger,
	}
}
