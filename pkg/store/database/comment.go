package database

import (
	"context"

	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/db/models"
	"github.com/taskhive/taskhive/pkg/store"
)

var _ store.CommentStore = (*commentStore)(nil)

type commentStore struct{}

// CreateComment implements store.CommentStore.
func (*commentStore) CreateComment(ctx context.Context, h db.Handler, task int64, content, author string) (models.TaskComment, error) {
	query := h.Rebind(`
		INSERT INTO
		  task_comments (task_id, content, author_email)
		VALUES
		  (?, ?, ?) RETURNING id;
	`)

	var id int64
	if err := h.GetContext(ctx, &id, query, task, content, author); err != nil {
		return models.TaskComment{}, err
	}

	var m models.TaskComment
	if err := h.GetContext(ctx, &m, h.Rebind(`SELECT * FROM task_comments WHERE id = ?`), id); err != nil {
		return models.TaskComment{}, err
	}

	return m, nil
}

// ListComments implements store.CommentStore. Comments are returned newest
// first.
func (*commentStore) ListComments(ctx context.Context, h db.Handler, task int64) ([]models.TaskComment, error) {
	var m []models.TaskComment
	query := h.Rebind(`
		SELECT
		  *
		FROM
		  task_comments
		WHERE
		  task_id = ?
		ORDER BY
		  created_at DESC, id DESC;
	`)
	err := h.SelectContext(ctx, &m, query, task)
	return m, err
}
