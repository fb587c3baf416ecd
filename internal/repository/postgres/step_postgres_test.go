package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"progressapi/internal/model"
)

var stepCols = []string{
	"id", "client_id", "title", "description", "deadline", "completed", "completed_date",
	"important", "package_id", "component_id",
	"onboarding_deadline", "first_draft_deadline", "second_draft_deadline",
	"onboarding_completed", "first_draft_completed", "second_draft_completed",
	"onboarding_completed_date", "first_draft_completed_date", "second_draft_completed_date",
	"created_at",
}

func addStepRow(rows *sqlmock.Rows, s model.ProgressStep) *sqlmock.Rows {
	return rows.AddRow(
		s.ID, s.ClientID, s.Title, s.Description, s.Deadline, s.Completed, s.CompletedDate,
		s.Important, s.PackageID, s.ComponentID,
		s.OnboardingDeadline, s.FirstDraftDeadline, s.SecondDraftDeadline,
		s.OnboardingCompleted, s.FirstDraftCompleted, s.SecondDraftCompleted,
		s.OnboardingCompletedDate, s.FirstDraftCompletedDate, s.SecondDraftCompletedDate,
		s.CreatedAt,
	)
}

func testStep() model.ProgressStep {
	return model.ProgressStep{
		ID:        "step-1",
		ClientID:  "client-1",
		Title:     "Website - Package Setup",
		Deadline:  time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		PackageID: "pkg-1",
		CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestStepPostgres_ListByClient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewStepPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		rows := addStepRow(sqlmock.NewRows(stepCols), testStep())
		mock.ExpectQuery("SELECT (.+) FROM progress_steps WHERE client_id").
			WithArgs("client-1").
			WillReturnRows(rows)

		steps, err := repo.ListByClient(ctx, "client-1")

		assert.NoError(t, err)
		require.Len(t, steps, 1)
		assert.Equal(t, "step-1", steps[0].ID)
		assert.Nil(t, steps[0].CompletedDate)
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM progress_steps WHERE client_id").
			WithArgs("client-2").
			WillReturnRows(sqlmock.NewRows(stepCols))

		steps, err := repo.ListByClient(ctx, "client-2")

		assert.NoError(t, err)
		assert.Empty(t, steps)
	})
}

func TestStepPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewStepPostgres(db)
	ctx := context.Background()

	t.Run("found with nullable fields set", func(t *testing.T) {
		s := testStep()
		done := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
		s.Completed = true
		s.CompletedDate = &done
		s.OnboardingDeadline = &done

		mock.ExpectQuery("SELECT (.+) FROM progress_steps WHERE id").
			WithArgs("step-1").
			WillReturnRows(addStepRow(sqlmock.NewRows(stepCols), s))

		got, err := repo.FindByID(ctx, "step-1")

		require.NoError(t, err)
		assert.True(t, got.Completed)
		require.NotNil(t, got.CompletedDate)
		assert.Equal(t, done, *got.CompletedDate)
		require.NotNil(t, got.OnboardingDeadline)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM progress_steps WHERE id").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindByID(ctx, "missing")

		assert.Nil(t, got)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})
}

func TestStepPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewStepPostgres(db)
	s := testStep()

	mock.ExpectQuery("INSERT INTO progress_steps").
		WillReturnRows(addStepRow(sqlmock.NewRows(stepCols), s))

	got, err := repo.Create(context.Background(), &s)

	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStepPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewStepPostgres(db)
	s := testStep()
	done := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	s.Completed = true
	s.CompletedDate = &done

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("UPDATE progress_steps SET").
			WillReturnRows(addStepRow(sqlmock.NewRows(stepCols), s))

		got, err := repo.Update(context.Background(), &s)

		require.NoError(t, err)
		assert.True(t, got.Completed)
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectQuery("UPDATE progress_steps SET").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Update(context.Background(), &s)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})
}

func TestStepPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewStepPostgres(db)

	mock.ExpectExec("DELETE FROM progress_steps WHERE id").
		WithArgs("step-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), "step-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPackagePostgres_ListByClient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPackagePostgres(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "client_id", "name", "position", "created_at"}).
		AddRow("pkg-1", "client-1", "Website", 1, now).
		AddRow("pkg-2", "client-1", "Branding", 2, now)

	mock.ExpectQuery("SELECT (.+) FROM packages WHERE client_id").
		WithArgs("client-1").
		WillReturnRows(rows)

	pkgs, err := repo.ListByClient(context.Background(), "client-1")

	assert.NoError(t, err)
	require.Len(t, pkgs, 2)
	assert.Equal(t, "Website", pkgs[0].Name)
}

func TestComponentPostgres_ListByClient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewComponentPostgres(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "package_id", "client_id", "name", "created_at"}).
		AddRow("comp-1", "pkg-1", "client-1", "Homepage", now)

	mock.ExpectQuery("SELECT (.+) FROM components WHERE client_id").
		WithArgs("client-1").
		WillReturnRows(rows)

	comps, err := repo.ListByClient(context.Background(), "client-1")

	assert.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Equal(t, "pkg-1", comps[0].PackageID)
}
