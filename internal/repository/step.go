package repository

import (
	"context"

	"progressapi/internal/model"
)

// StepRepository is the step store: CRUD for progress steps keyed by opaque
// ids. Updates are whole-row writes; concurrent edits to the same step are
// last-write-wins by design, there is no version column.
type StepRepository interface {
	// ListByClient returns every step belonging to the client, creation
	// time ascending.
	ListByClient(ctx context.Context, clientID string) ([]model.ProgressStep, error)

	// FindByID returns a single step. Missing rows surface sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.ProgressStep, error)

	// Create inserts a new step row and returns the stored record.
	Create(ctx context.Context, s *model.ProgressStep) (*model.ProgressStep, error)

	// Update rewrites all mutable columns of the step and returns the
	// stored record. Missing rows surface sql.ErrNoRows.
	Update(ctx context.Context, s *model.ProgressStep) (*model.ProgressStep, error)

	// Delete removes a step by id. Deleting a missing row is not an error.
	Delete(ctx context.Context, id string) error
}
