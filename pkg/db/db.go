// Package db provides database interface and connection management for
// Taskhive.
package db

import (
	"context"
	"database/sql"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver
)

// DB is the interface for a database.
type DB struct {
	*sqlx.DB
	logger *log.Logger
}

// Open opens a database connection.
func Open(ctx context.Context, driverName string, dsn string) (*DB, error) {
	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, err
	}

	d := &DB{
		DB: db,
	}

	logger := log.FromContext(ctx)
	if logger != nil {
		d.logger = logger.WithPrefix("db")
	}

	return d, nil
}

// Close implements db.DB.
func (d *DB) Close() error {
	return d.DB.Close()
}

// Tx is a database transaction.
type Tx struct {
	*sqlx.Tx
	logger *log.Logger
}

// Transaction executes the given function within a transaction.
func (d *DB) Transaction(fn func(tx *Tx) error) error {
	return d.TransactionContext(context.Background(), fn)
}

// TransactionContext executes the given function within a transaction.
func (d *DB) TransactionContext(ctx context.Context, fn func(tx *Tx) error) error {
	txx, err := d.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	tx := &Tx{
		Tx:     txx,
		logger: d.logger,
	}

	if err := fn(tx); err != nil {
		return rollback(tx, err)
	}

	if err := tx.Commit(); err != nil {
		if err == sql.ErrTxDone {
			// this is ok because fn may have committed already
			return nil
		}
		return err
	}

	return nil
}

func rollback(tx *Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		if rerr == sql.ErrTxDone {
			return err
		}
		return rerr
	}
	return err
}
