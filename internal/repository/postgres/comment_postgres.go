package postgres

import (
	"context"
	"database/sql"

	"progressapi/internal/model"
	"progressapi/internal/repository"
)

// CommentPostgres is a PostgreSQL implementation of
// repository.CommentRepository.
type CommentPostgres struct {
	db *sql.DB
}

func NewCommentPostgres(db *sql.DB) *CommentPostgres {
	return &CommentPostgres{db: db}
}

var _ repository.CommentRepository = (*CommentPostgres)(nil)

// ListByStep returns a step's comments in creation order.
func (r *CommentPostgres) ListByStep(ctx context.Context, stepID string) ([]model.Comment, error) {
	const q = `
		SELECT id, step_id, author, body, attachment_url, attachment_type, created_at
		FROM step_comments
		WHERE step_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, stepID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.StepID, &c.Author, &c.Text, &c.AttachmentURL, &c.AttachmentType, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single comment by id.
func (r *CommentPostgres) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	const q = `
		SELECT id, step_id, author, body, attachment_url, attachment_type, created_at
		FROM step_comments
		WHERE id = $1
	`
	var c model.Comment
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&c.ID, &c.StepID, &c.Author, &c.Text, &c.AttachmentURL, &c.AttachmentType, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new comment row and returns the stored record.
func (r *CommentPostgres) Create(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	const q = `
		INSERT INTO step_comments (id, step_id, author, body, attachment_url, attachment_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, step_id, author, body, attachment_url, attachment_type, created_at
	`
	var out model.Comment
	err := r.db.QueryRowContext(ctx, q,
		c.ID, c.StepID, c.Author, c.Text, c.AttachmentURL, c.AttachmentType, c.CreatedAt,
	).Scan(&out.ID, &out.StepID, &out.Author, &out.Text, &out.AttachmentURL, &out.AttachmentType, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a comment by id. Missing rows are not an error.
func (r *CommentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM step_comments WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
