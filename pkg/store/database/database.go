// Package database provides the sqlx implementation of the store
// interfaces.
package database

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/taskhive/taskhive/pkg/config"
	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/store"
)

type datastore struct {
	ctx    context.Context
	cfg    *config.Config
	db     *db.DB
	logger *log.Logger

	*orgStore
	*projectStore
	*taskStore
	*commentStore
}

// New returns a new store.Store database.
func New(ctx context.Context, db *db.DB) store.Store {
	cfg := config.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("store")

	s := &datastore{
		ctx:    ctx,
		cfg:    cfg,
		db:     db,
		logger: logger,

		orgStore:     &orgStore{},
		projectStore: &projectStore{},
		taskStore:    &taskStore{},
		commentStore: &commentStore{},
	}

	return s
}
