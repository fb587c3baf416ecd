package postgres

import (
	"context"
	"database/sql"

	"progressapi/internal/model"
	"progressapi/internal/repository"
)

// StepPostgres is a PostgreSQL implementation of repository.StepRepository.
// It uses database/sql with parameterized queries and contains no business
// logic.
type StepPostgres struct {
	db *sql.DB
}

// NewStepPostgres creates a new StepPostgres repository.
func NewStepPostgres(db *sql.DB) *StepPostgres {
	return &StepPostgres{db: db}
}

var _ repository.StepRepository = (*StepPostgres)(nil)

const stepColumns = `id, client_id, title, description, deadline, completed, completed_date,
		important, package_id, component_id,
		onboarding_deadline, first_draft_deadline, second_draft_deadline,
		onboarding_completed, first_draft_completed, second_draft_completed,
		onboarding_completed_date, first_draft_completed_date, second_draft_completed_date,
		created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStep(row rowScanner) (*model.ProgressStep, error) {
	var s model.ProgressStep
	if err := row.Scan(
		&s.ID,
		&s.ClientID,
		&s.Title,
		&s.Description,
		&s.Deadline,
		&s.Completed,
		&s.CompletedDate,
		&s.Important,
		&s.PackageID,
		&s.ComponentID,
		&s.OnboardingDeadline,
		&s.FirstDraftDeadline,
		&s.SecondDraftDeadline,
		&s.OnboardingCompleted,
		&s.FirstDraftCompleted,
		&s.SecondDraftCompleted,
		&s.OnboardingCompletedDate,
		&s.FirstDraftCompletedDate,
		&s.SecondDraftCompletedDate,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByClient returns all of a client's steps, creation time ascending.
func (r *StepPostgres) ListByClient(ctx context.Context, clientID string) ([]model.ProgressStep, error) {
	const q = `
		SELECT ` + stepColumns + `
		FROM progress_steps
		WHERE client_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ProgressStep, 0)
	for rows.Next() {
		s, err := scanStep(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single step by its id.
func (r *StepPostgres) FindByID(ctx context.Context, id string) (*model.ProgressStep, error) {
	const q = `
		SELECT ` + stepColumns + `
		FROM progress_steps
		WHERE id = $1
	`
	return scanStep(r.db.QueryRowContext(ctx, q, id))
}

// Create inserts a new step row and returns the stored record.
func (r *StepPostgres) Create(ctx context.Context, s *model.ProgressStep) (*model.ProgressStep, error) {
	const q = `
		INSERT INTO progress_steps (
			id, client_id, title, description, deadline, completed, completed_date,
			important, package_id, component_id,
			onboarding_deadline, first_draft_deadline, second_draft_deadline,
			onboarding_completed, first_draft_completed, second_draft_completed,
			onboarding_completed_date, first_draft_completed_date, second_draft_completed_date,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING ` + stepColumns + `
	`
	row := r.db.QueryRowContext(ctx, q,
		s.ID,
		s.ClientID,
		s.Title,
		s.Description,
		s.Deadline,
		s.Completed,
		s.CompletedDate,
		s.Important,
		s.PackageID,
		s.ComponentID,
		s.OnboardingDeadline,
		s.FirstDraftDeadline,
		s.SecondDraftDeadline,
		s.OnboardingCompleted,
		s.FirstDraftCompleted,
		s.SecondDraftCompleted,
		s.OnboardingCompletedDate,
		s.FirstDraftCompletedDate,
		s.SecondDraftCompletedDate,
		s.CreatedAt,
	)
	return scanStep(row)
}

// Update rewrites all mutable columns of the step. client_id and created_at
// are immutable.
func (r *StepPostgres) Update(ctx context.Context, s *model.ProgressStep) (*model.ProgressStep, error) {
	const q = `
		UPDATE progress_steps SET
			title = $2,
			description = $3,
			deadline = $4,
			completed = $5,
			completed_date = $6,
			important = $7,
			package_id = $8,
			component_id = $9,
			onboarding_deadline = $10,
			first_draft_deadline = $11,
			second_draft_deadline = $12,
			onboarding_completed = $13,
			first_draft_completed = $14,
			second_draft_completed = $15,
			onboarding_completed_date = $16,
			first_draft_completed_date = $17,
			second_draft_completed_date = $18
		WHERE id = $1
		RETURNING ` + stepColumns + `
	`
	row := r.db.QueryRowContext(ctx, q,
		s.ID,
		s.Title,
		s.Description,
		s.Deadline,
		s.Completed,
		s.CompletedDate,
		s.Important,
		s.PackageID,
		s.ComponentID,
		s.OnboardingDeadline,
		s.FirstDraftDeadline,
		s.SecondDraftDeadline,
		s.OnboardingCompleted,
		s.FirstDraftCompleted,
		s.SecondDraftCompleted,
		s.OnboardingCompletedDate,
		s.FirstDraftCompletedDate,
		s.SecondDraftCompletedDate,
	)
	return scanStep(row)
}

// Delete removes a step by id. Missing rows are not an error.
func (r *StepPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM progress_steps WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
