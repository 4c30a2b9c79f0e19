package db

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	sqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

var (
	// ErrRecordNotFound is returned when a record is not found.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when a unique constraint is violated.
	ErrDuplicateKey = errors.New("duplicate key value, violates unique constraint")
)

// WrapError is a convenient function that unites various database driver
// errors to consistent errors.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrRecordNotFound
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlitelib.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY {
			return ErrDuplicateKey
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// unique_violation
		if pqErr.Code == "23505" {
			return ErrDuplicateKey
		}
	}

	return err
}
