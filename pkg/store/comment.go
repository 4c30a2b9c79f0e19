package store

import (
	"context"

	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/db/models"
)

// CommentStore is a store for task comments.
type CommentStore interface {
	CreateComment(ctx context.Context, h db.Handler, task int64, content, author string) (models.TaskComment, error)
	ListComments(ctx context.Context, h db.Handler, task int64) ([]models.TaskComment, error)
}
