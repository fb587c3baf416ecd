package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"progressapi/internal/model"
	repoMocks "progressapi/internal/repository/mocks"
)

var frozenNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type progressFixture struct {
	steps    *repoMocks.MockStepRepository
	packages *repoMocks.MockPackageProvider
	comps    *repoMocks.MockComponentProvider
	comments *repoMocks.MockCommentRepository
	svc      *progressService
}

func newProgressFixture() *progressFixture {
	f := &progressFixture{
		steps:    new(repoMocks.MockStepRepository),
		packages: new(repoMocks.MockPackageProvider),
		comps:    new(repoMocks.MockComponentProvider),
		comments: new(repoMocks.MockCommentRepository),
	}
	f.svc = NewProgressService(f.steps, f.packages, f.comps, f.comments).(*progressService)
	f.svc.now = func() time.Time { return frozenNow }
	return f
}

func pkgStep(id string) *model.ProgressStep {
	return &model.ProgressStep{
		ID:        id,
		ClientID:  "client-1",
		Title:     "Website - Package Setup",
		Deadline:  frozenNow.AddDate(0, 0, 30),
		PackageID: "pkg-1",
		CreatedAt: frozenNow.Add(-72 * time.Hour),
	}
}

func compStep(id, compID, title string, age time.Duration) model.ProgressStep {
	return model.ProgressStep{
		ID:          id,
		ClientID:    "client-1",
		Title:       title,
		Deadline:    frozenNow.AddDate(0, 0, 30),
		ComponentID: compID,
		CreatedAt:   frozenNow.Add(-age),
	}
}

func websiteData(f *progressFixture, parent *model.ProgressStep) {
	steps := []model.ProgressStep{
		*parent,
		compStep("s-home", "comp-1", "Homepage", 48*time.Hour),
		compStep("s-contact", "comp-2", "Contact Page", 24*time.Hour),
	}
	f.steps.On("ListByClient", mock.Anything, "client-1").Return(steps, nil)
	f.packages.On("ListByClient", mock.Anything, "client-1").
		Return([]model.Package{{ID: "pkg-1", ClientID: "client-1", Name: "Website", Position: 1}}, nil)
	f.comps.On("ListByClient", mock.Anything, "client-1").
		Return([]model.Component{
			{ID: "comp-1", PackageID: "pkg-1", Name: "Homepage"},
			{ID: "comp-2", PackageID: "pkg-1", Name: "Contact Page"},
		}, nil)
}

func TestProgressService_Hierarchy(t *testing.T) {
	ctx := context.Background()

	t.Run("groups steps under packages", func(t *testing.T) {
		f := newProgressFixture()
		websiteData(f, pkgStep("s-setup"))

		roots, err := f.svc.Hierarchy(ctx, "client-1")

		require.NoError(t, err)
		require.Len(t, roots, 1)
		assert.True(t, roots[0].IsPackage)
		assert.Len(t, roots[0].Children, 2)
	})

	t.Run("degrades to empty tree when the step store is down", func(t *testing.T) {
		f := newProgressFixture()
		f.steps.On("ListByClient", mock.Anything, "client-1").Return(nil, errors.New("connection refused"))
		f.packages.On("ListByClient", mock.Anything, "client-1").Return(nil, errors.New("connection refused"))
		f.comps.On("ListByClient", mock.Anything, "client-1").Return(nil, errors.New("connection refused"))

		roots, err := f.svc.Hierarchy(ctx, "client-1")

		require.NoError(t, err)
		assert.Empty(t, roots)
	})

	t.Run("rejects missing client id", func(t *testing.T) {
		f := newProgressFixture()
		_, err := f.svc.Hierarchy(ctx, "")
		assert.ErrorIs(t, err, ErrClientIDRequired)
	})
}

func TestProgressService_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("computes from the flat step list", func(t *testing.T) {
		f := newProgressFixture()
		done := frozenNow.Add(-time.Hour)
		steps := []model.ProgressStep{
			{ID: "s1", Completed: true, CompletedDate: &done, Deadline: frozenNow.Add(time.Hour)},
			{ID: "s2", Deadline: frozenNow.Add(-time.Hour)},
			{ID: "s3", Deadline: frozenNow.Add(time.Hour)},
		}
		f.steps.On("ListByClient", mock.Anything, "client-1").Return(steps, nil)

		st, err := f.svc.Status(ctx, "client-1")

		require.NoError(t, err)
		assert.Equal(t, 3, st.TotalSteps)
		assert.Equal(t, 1, st.CompletedSteps)
		assert.Equal(t, 33, st.Percentage)
		assert.Equal(t, 1, st.OverdueCount)
		assert.True(t, st.HasOverdue)
	})

	t.Run("degrades to zero status when the step store is down", func(t *testing.T) {
		f := newProgressFixture()
		f.steps.On("ListByClient", mock.Anything, "client-1").Return(nil, errors.New("timeout"))

		st, err := f.svc.Status(ctx, "client-1")

		require.NoError(t, err)
		assert.Equal(t, &model.ClientStatus{}, st)
	})
}

func TestProgressService_CreateStep(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		in      CreateStepInput
		wantErr error
	}{
		{
			name:    "missing client id",
			in:      CreateStepInput{Title: "t", Deadline: "2024-07-01"},
			wantErr: ErrClientIDRequired,
		},
		{
			name:    "missing title",
			in:      CreateStepInput{ClientID: "client-1", Deadline: "2024-07-01"},
			wantErr: ErrTitleRequired,
		},
		{
			name:    "missing deadline",
			in:      CreateStepInput{ClientID: "client-1", Title: "t"},
			wantErr: ErrDeadlineRequired,
		},
		{
			name:    "bad deadline",
			in:      CreateStepInput{ClientID: "client-1", Title: "t", Deadline: "soonish"},
			wantErr: ErrBadDate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProgressFixture()
			_, err := f.svc.CreateStep(ctx, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
			f.steps.AssertNotCalled(t, "Create")
		})
	}

	t.Run("happy path fills id, created_at and keys", func(t *testing.T) {
		f := newProgressFixture()
		f.steps.On("Create", mock.Anything, mock.MatchedBy(func(s *model.ProgressStep) bool {
			return s.ID != "" && s.ClientID == "client-1" && s.ComponentID == "comp-1" &&
				s.CreatedAt.Equal(frozenNow) && !s.Completed && s.CompletedDate == nil
		})).Return(&model.ProgressStep{ID: "stored"}, nil)

		got, err := f.svc.CreateStep(ctx, CreateStepInput{
			ClientID:    "client-1",
			Title:       "Homepage",
			Deadline:    "2024-07-01",
			ComponentID: "comp-1",
		})

		require.NoError(t, err)
		assert.Equal(t, "stored", got.ID)
		f.steps.AssertExpectations(t)
	})
}

func TestProgressService_CompleteStep_Cascades(t *testing.T) {
	ctx := context.Background()

	t.Run("package completion completes matched children with same date", func(t *testing.T) {
		f := newProgressFixture()
		parent := pkgStep("s-setup")
		websiteData(f, parent)

		f.steps.On("FindByID", mock.Anything, "s-setup").Return(parent, nil)
		f.steps.On("Update", mock.Anything, mock.MatchedBy(func(s *model.ProgressStep) bool {
			return s.ID == "s-setup" && s.Completed && s.CompletedDate != nil && s.CompletedDate.Equal(frozenNow)
		})).Return(parent, nil)

		for _, childID := range []string{"s-home", "s-contact"} {
			child := compStep(childID, "", "", time.Hour)
			f.steps.On("FindByID", mock.Anything, childID).Return(&child, nil)
		}
		f.steps.On("Update", mock.Anything, mock.MatchedBy(func(s *model.ProgressStep) bool {
			return (s.ID == "s-home" || s.ID == "s-contact") &&
				s.Completed && s.CompletedDate != nil && s.CompletedDate.Equal(frozenNow)
		})).Return(&model.ProgressStep{}, nil).Times(2)

		_, err := f.svc.CompleteStep(ctx, "s-setup")

		require.NoError(t, err)
		f.steps.AssertExpectations(t)
	})

	t.Run("partial child failure surfaces failed ids without rollback", func(t *testing.T) {
		f := newProgressFixture()
		parent := pkgStep("s-setup")
		websiteData(f, parent)

		f.steps.On("FindByID", mock.Anything, "s-setup").Return(parent, nil)
		f.steps.On("Update", mock.Anything, mock.MatchedBy(func(s *model.ProgressStep) bool {
			return s.ID == "s-setup"
		})).Return(parent, nil)

		home := compStep("s-home", "comp-1", "Homepage", time.Hour)
		f.steps.On("FindByID", mock.Anything, "s-home").Return(&home, nil)
		f.steps.On("Update", mock.Anything, mock.MatchedBy(func(s *model.ProgressStep) bool {
			return s.ID == "s-home"
		})).Return(&home, nil)

		f.steps.On("FindByID", mock.Anything, "s-contact").Return(nil, errors.New("store unavailable"))

		updated, err := f.svc.CompleteStep(ctx, "s-setup")

		require.Error(t, err)
		var cascadeErr *PartialCascadeError
		require.ErrorAs(t, err, &cascadeErr)
		assert.Equal(t, "s-setup", cascadeErr.StepID)
		assert.Equal(t, []string{"s-contact"}, cascadeErr.FailedIDs)
		// The parent update stands.
		assert.NotNil(t, updated)
	})

	t.Run("child enumeration failure after the parent update is not silent", func(t *testing.T) {
		f := newProgressFixture()
		parent := pkgStep("s-setup")

		f.steps.On("FindByID", mock.Anything, "s-setup").Return(parent, nil)
		f.steps.On("Update", mock.Anything, mock.MatchedBy(func(s *model.ProgressStep) bool {
			return s.ID == "s-setup" && s.Completed
		})).Return(parent, nil).Once()
		f.steps.On("ListByClient", mock.Anything, "client-1").
			Return(nil, errors.New("connection refused"))

		updated, err := f.svc.CompleteStep(ctx, "s-setup")

		var cascadeErr *PartialCascadeError
		require.ErrorAs(t, err, &cascadeErr)
		assert.Equal(t, "s-setup", cascadeErr.StepID)
		assert.Empty(t, cascadeErr.FailedIDs)
		// The parent update stands; only the child set is unknown.
		assert.NotNil(t, updated)
		f.steps.AssertExpectations(t)
	})

	t.Run("uncompleting reverses the cascade", func(t *testing.T) {
		f := newProgressFixture()
		done := frozenNow.Add(-time.Hour)
		parent := pkgStep("s-setup")
		parent.Completed = true
		parent.CompletedDate = &done
		websiteData(f, parent)

		f.steps.On("FindByID", mock.Anything, "s-setup").Return(parent, nil)
		f.steps.On("Update", mock.Anything, mock.MatchedBy(func(s *model.ProgressStep) bool {
			return s.ID == "s-setup" && !s.Completed && s.CompletedDate == nil
		})).Return(parent, nil)

		for _, childID := range []string{"s-home", "s-contact"} {
			child := compStep(childID, "", "", time.Hour)
			child.Completed = true
			child.CompletedDate = &done
			f.steps.On("FindByID", mock.Anything, childID).Return(&child, nil)
		}
		f.steps.On("Update", mock.Anything, mock.MatchedBy(func(s *model.ProgressStep) bool {
			return (s.ID == "s-home" || s.ID == "s-contact") && !s.Completed && s.CompletedDate == nil
		})).Return(&model.ProgressStep{}, nil).Times(2)

		_, err := f.svc.UncompleteStep(ctx, "s-setup")

		require.NoError(t, err)
		f.steps.AssertExpectations(t)
	})

	t.Run("standalone step completes without cascading", func(t *testing.T) {
		f := newProgressFixture()
		solo := &model.ProgressStep{
			ID: "s-solo", ClientID: "client-1", Title: "Review call",
			Deadline: frozenNow.Add(time.Hour), CreatedAt: frozenNow.Add(-time.Hour),
		}
		f.steps.On("FindByID", mock.Anything, "s-solo").Return(solo, nil)
		f.steps.On("Update", mock.Anything, mock.Anything).Return(solo, nil).Once()
		f.steps.On("ListByClient", mock.Anything, "client-1").Return([]model.ProgressStep{*solo}, nil)
		f.packages.On("ListByClient", mock.Anything, "client-1").Return([]model.Package{}, nil)
		f.comps.On("ListByClient", mock.Anything, "client-1").Return([]model.Component{}, nil)

		_, err := f.svc.CompleteStep(ctx, "s-solo")

		require.NoError(t, err)
		f.steps.AssertExpectations(t)
	})
}

func TestProgressService_Milestones(t *testing.T) {
	ctx := context.Background()

	t.Run("set deadline touches only the named milestone", func(t *testing.T) {
		f := newProgressFixture()
		step := pkgStep("s-setup")
		step.FirstDraftCompleted = true
		f.steps.On("FindByID", mock.Anything, "s-setup").Return(step, nil)
		f.steps.On("Update", mock.Anything, mock.MatchedBy(func(s *model.ProgressStep) bool {
			return s.FirstDraftDeadline != nil &&
				s.FirstDraftDeadline.Equal(time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)) &&
				s.FirstDraftCompleted &&
				s.OnboardingDeadline == nil && s.SecondDraftDeadline == nil
		})).Return(step, nil)

		_, err := f.svc.SetMilestoneDeadline(ctx, "s-setup", "first_draft", "2024-08-15")

		require.NoError(t, err)
		f.steps.AssertExpectations(t)
	})

	t.Run("rejects unknown milestone", func(t *testing.T) {
		f := newProgressFixture()
		_, err := f.svc.SetMilestoneDeadline(ctx, "s-setup", "third_draft", "2024-08-15")
		assert.ErrorIs(t, err, ErrBadMilestone)
	})

	t.Run("rejects unparseable date without writing", func(t *testing.T) {
		f := newProgressFixture()
		_, err := f.svc.SetMilestoneDeadline(ctx, "s-setup", "first_draft", "mañana")
		assert.ErrorIs(t, err, ErrBadDate)
		f.steps.AssertNotCalled(t, "Update")
	})

	t.Run("complete and uncomplete record and clear the date", func(t *testing.T) {
		f := newProgressFixture()
		step := pkgStep("s-setup")
		f.steps.On("FindByID", mock.Anything, "s-setup").Return(step, nil)
		f.steps.On("Update", mock.Anything, mock.MatchedBy(func(s *model.ProgressStep) bool {
			return s.OnboardingCompleted && s.OnboardingCompletedDate != nil &&
				s.OnboardingCompletedDate.Equal(frozenNow)
		})).Return(step, nil).Once()

		_, err := f.svc.CompleteMilestone(ctx, "s-setup", "onboarding")
		require.NoError(t, err)

		f.steps.On("Update", mock.Anything, mock.MatchedBy(func(s *model.ProgressStep) bool {
			return !s.OnboardingCompleted && s.OnboardingCompletedDate == nil
		})).Return(step, nil).Once()

		_, err = f.svc.UncompleteMilestone(ctx, "s-setup", "onboarding")
		require.NoError(t, err)
		f.steps.AssertExpectations(t)
	})
}

func TestProgressService_NotFoundMapping(t *testing.T) {
	ctx := context.Background()
	f := newProgressFixture()
	f.steps.On("FindByID", mock.Anything, "missing").Return(nil, sql.ErrNoRows)

	_, err := f.svc.GetStep(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.svc.DeleteStep(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProgressService_GetStep_AttachesComments(t *testing.T) {
	ctx := context.Background()
	f := newProgressFixture()
	step := pkgStep("s-setup")
	f.steps.On("FindByID", mock.Anything, "s-setup").Return(step, nil)
	f.comments.On("ListByStep", mock.Anything, "s-setup").
		Return([]model.Comment{{ID: "cm-1", StepID: "s-setup", Author: "Ana", Text: "hi"}}, nil)

	got, err := f.svc.GetStep(ctx, "s-setup")

	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "cm-1", got.Comments[0].ID)
}
