package backend

import (
	"context"
	"errors"
	"strings"

	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/db/models"
	"github.com/taskhive/taskhive/pkg/proto"
	"github.com/taskhive/taskhive/pkg/utils"
)

// TaskComments returns the comments of the given task under the
// organization with the given slug, newest first. An unknown slug or a
// task owned by another organization yields an empty list.
func (b *Backend) TaskComments(ctx context.Context, slug string, taskID int64) ([]models.TaskComment, error) {
	comments := []models.TaskComment{}
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		org, err := b.store.FindOrgBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}

		task, err := b.store.GetTaskByID(ctx, tx, org.ID, taskID)
		if err != nil {
			return err
		}

		comments, err = b.store.ListComments(ctx, tx, task.ID)
		return err
	}); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			b.logger.Debug("task not found", "org", slug, "task", taskID)
			return []models.TaskComment{}, nil
		}
		return nil, db.WrapError(err)
	}

	return comments, nil
}

// CreateTaskComment adds a comment to the task with the given id under the
// organization with the given slug.
func (b *Backend) CreateTaskComment(ctx context.Context, slug string, taskID int64, content, authorEmail string) proto.CommentResult {
	content = strings.TrimSpace(content)
	if content == "" {
		return proto.CommentResult{Message: "Comment content cannot be empty"}
	}

	if err := utils.ValidateEmail(authorEmail); err != nil {
		return proto.CommentResult{Message: "Invalid author email address"}
	}
	authorEmail = strings.ToLower(strings.TrimSpace(authorEmail))

	var comment models.TaskComment
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		org, err := b.store.FindOrgBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}

		task, err := b.store.GetTaskByID(ctx, tx, org.ID, taskID)
		if err != nil {
			return err
		}

		comment, err = b.store.CreateComment(ctx, tx, task.ID, content, authorEmail)
		return err
	}); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return proto.CommentResult{Message: "Task or Organization not found"}
		}
		b.logger.Error("failed to create comment", "org", slug, "task", taskID, "err", err)
		return proto.CommentResult{Message: err.Error()}
	}

	return proto.CommentResult{
		Success: true,
		Message: "Comment added successfully",
		Comment: &comment,
	}
}
