package repository

import (
	"context"

	"progressapi/internal/model"
)

// CommentRepository stores step comments. Comments are immutable once
// created except for deletion.
type CommentRepository interface {
	ListByStep(ctx context.Context, stepID string) ([]model.Comment, error)
	FindByID(ctx context.Context, id string) (*model.Comment, error)
	Create(ctx context.Context, c *model.Comment) (*model.Comment, error)
	Delete(ctx context.Context, id string) error
}

// FileRepository stores client-scoped file attachments.
type FileRepository interface {
	ListByClient(ctx context.Context, clientID string) ([]model.AttachedFile, error)
	FindByID(ctx context.Context, id string) (*model.AttachedFile, error)
	Create(ctx context.Context, f *model.AttachedFile) (*model.AttachedFile, error)
	Delete(ctx context.Context, id string) error
}

// LinkRepository stores client-scoped external links.
type LinkRepository interface {
	ListByClient(ctx context.Context, clientID string) ([]model.ClientLink, error)
	FindByID(ctx context.Context, id string) (*model.ClientLink, error)
	Create(ctx context.Context, l *model.ClientLink) (*model.ClientLink, error)
	Delete(ctx context.Context, id string) error
}
