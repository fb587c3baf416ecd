package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"progressapi/internal/model"
	"progressapi/internal/progress"
	"progressapi/internal/repository"
)

// CreateStepInput carries the fields an admin supplies when adding a step.
// PackageID/ComponentID are set when the step is created for a package or
// component so hierarchy building never depends on title matching for new
// rows.
type CreateStepInput struct {
	ClientID    string `json:"client_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Important   bool   `json:"important"`
	PackageID   string `json:"package_id"`
	ComponentID string `json:"component_id"`
}

// UpdateStepInput carries a partial edit; nil fields are left unchanged.
// Completion state is not edited here; the complete/uncomplete operations
// own it together with the cascade rule.
type UpdateStepInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Important   *bool   `json:"important"`
}

// ProgressService is the progress tracking engine: hierarchy and status
// reads, step lifecycle, completion with the package cascade, and the three
// package milestones.
type ProgressService interface {
	// Hierarchy returns the client's two-level project view. Collaborator
	// failures degrade to an empty tree; this read never errors.
	Hierarchy(ctx context.Context, clientID string) ([]model.HierarchicalStep, error)

	// Status returns the client's aggregate progress summary, the single
	// source every view reads percentage and overdue badges from.
	// Collaborator failures degrade to a zero status.
	Status(ctx context.Context, clientID string) (*model.ClientStatus, error)

	ListSteps(ctx context.Context, clientID string) ([]model.ProgressStep, error)

	// GetStep returns a step with its comments attached.
	GetStep(ctx context.Context, id string) (*model.ProgressStep, error)

	CreateStep(ctx context.Context, in CreateStepInput) (*model.ProgressStep, error)
	UpdateStep(ctx context.Context, id string, in UpdateStepInput) (*model.ProgressStep, error)
	DeleteStep(ctx context.Context, id string) error

	// CompleteStep marks a step completed. For a package-level step the
	// completion cascades to every currently-matched component child. A
	// partially failed cascade, or one whose children could not be
	// enumerated, returns *PartialCascadeError alongside the updated parent.
	CompleteStep(ctx context.Context, id string) (*model.ProgressStep, error)

	// UncompleteStep reverses CompleteStep, including the cascade.
	UncompleteStep(ctx context.Context, id string) (*model.ProgressStep, error)

	// SetMilestoneDeadline rewrites one of the three milestone deadlines on
	// a package-level step. Unparseable dates are rejected; past dates are
	// allowed.
	SetMilestoneDeadline(ctx context.Context, id string, milestone string, date string) (*model.ProgressStep, error)

	CompleteMilestone(ctx context.Context, id string, milestone string) (*model.ProgressStep, error)
	UncompleteMilestone(ctx context.Context, id string, milestone string) (*model.ProgressStep, error)
}

type progressService struct {
	steps    repository.StepRepository
	packages repository.PackageProvider
	comps    repository.ComponentProvider
	comments repository.CommentRepository
	now      func() time.Time
}

// NewProgressService constructs the engine over its collaborators.
func NewProgressService(
	steps repository.StepRepository,
	packages repository.PackageProvider,
	comps repository.ComponentProvider,
	comments repository.CommentRepository,
) ProgressService {
	return &progressService{
		steps:    steps,
		packages: packages,
		comps:    comps,
		comments: comments,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// snapshot fetches the client's full data set for one aggregation pass.
// Each list degrades to empty on failure so display reads never crash a
// view; the failure is logged for operators.
func (s *progressService) snapshot(ctx context.Context, clientID string) progress.Snapshot {
	var snap progress.Snapshot
	var err error

	if snap.Steps, err = s.steps.ListByClient(ctx, clientID); err != nil {
		logDegraded("step store", clientID, err)
		snap.Steps = nil
	}
	if snap.Packages, err = s.packages.ListByClient(ctx, clientID); err != nil {
		logDegraded("package provider", clientID, err)
		snap.Packages = nil
	}
	if snap.Components, err = s.comps.ListByClient(ctx, clientID); err != nil {
		logDegraded("component provider", clientID, err)
		snap.Components = nil
	}
	return snap
}

// cascadeSnapshot fetches the data set the completion cascade enumerates
// children from. Unlike the display reads, failures propagate: skipping the
// cascade because enumeration broke would report success with children left
// untouched.
func (s *progressService) cascadeSnapshot(ctx context.Context, clientID string) (progress.Snapshot, error) {
	var snap progress.Snapshot
	var err error

	if snap.Steps, err = s.steps.ListByClient(ctx, clientID); err != nil {
		return snap, fmt.Errorf("step store: %w", err)
	}
	if snap.Packages, err = s.packages.ListByClient(ctx, clientID); err != nil {
		return snap, fmt.Errorf("package provider: %w", err)
	}
	if snap.Components, err = s.comps.ListByClient(ctx, clientID); err != nil {
		return snap, fmt.Errorf("component provider: %w", err)
	}
	return snap, nil
}

func (s *progressService) Hierarchy(ctx context.Context, clientID string) ([]model.HierarchicalStep, error) {
	if clientID == "" {
		return nil, ErrClientIDRequired
	}
	return progress.BuildHierarchy(s.snapshot(ctx, clientID), s.now()), nil
}

func (s *progressService) Status(ctx context.Context, clientID string) (*model.ClientStatus, error) {
	if clientID == "" {
		return nil, ErrClientIDRequired
	}
	steps, err := s.steps.ListByClient(ctx, clientID)
	if err != nil {
		logDegraded("step store", clientID, err)
		steps = nil
	}
	st := progress.ComputeStatus(steps, s.now())
	return &st, nil
}

func (s *progressService) ListSteps(ctx context.Context, clientID string) ([]model.ProgressStep, error) {
	if clientID == "" {
		return nil, ErrClientIDRequired
	}
	return s.steps.ListByClient(ctx, clientID)
}

func (s *progressService) GetStep(ctx context.Context, id string) (*model.ProgressStep, error) {
	step, err := s.loadStep(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByStep(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	step.Comments = comments
	return step, nil
}

func (s *progressService) CreateStep(ctx context.Context, in CreateStepInput) (*model.ProgressStep, error) {
	if in.ClientID == "" {
		return nil, ErrClientIDRequired
	}
	if in.Title == "" {
		return nil, ErrTitleRequired
	}
	if in.Deadline == "" {
		return nil, ErrDeadlineRequired
	}
	deadline, err := progress.ParseDeadline(in.Deadline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDate, err)
	}

	step := &model.ProgressStep{
		ID:          uuid.New().String(),
		ClientID:    in.ClientID,
		Title:       in.Title,
		Description: in.Description,
		Deadline:    deadline,
		Important:   in.Important,
		PackageID:   in.PackageID,
		ComponentID: in.ComponentID,
		CreatedAt:   s.now(),
	}
	return s.steps.Create(ctx, step)
}

func (s *progressService) UpdateStep(ctx context.Context, id string, in UpdateStepInput) (*model.ProgressStep, error) {
	step, err := s.loadStep(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, ErrTitleRequired
		}
		step.Title = *in.Title
	}
	if in.Description != nil {
		step.Description = *in.Description
	}
	if in.Deadline != nil {
		deadline, err := progress.ParseDeadline(*in.Deadline)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDate, err)
		}
		step.Deadline = deadline
	}
	if in.Important != nil {
		step.Important = *in.Important
	}
	return s.update(ctx, step)
}

func (s *progressService) DeleteStep(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.loadStep(ctx, id); err != nil {
		return err
	}
	return s.steps.Delete(ctx, id)
}

func (s *progressService) CompleteStep(ctx context.Context, id string) (*model.ProgressStep, error) {
	return s.setCompletion(ctx, id, true)
}

func (s *progressService) UncompleteStep(ctx context.Context, id string) (*model.ProgressStep, error) {
	return s.setCompletion(ctx, id, false)
}

func (s *progressService) setCompletion(ctx context.Context, id string, completed bool) (*model.ProgressStep, error) {
	step, err := s.loadStep(ctx, id)
	if err != nil {
		return nil, err
	}
	at := s.now()
	progress.MarkCompleted(step, completed, at)
	updated, err := s.update(ctx, step)
	if err != nil {
		return nil, err
	}

	snap, err := s.cascadeSnapshot(ctx, step.ClientID)
	if err != nil {
		return updated, &PartialCascadeError{StepID: id, Errs: []error{err}}
	}
	children := progress.MatchedChildren(snap, id, at)
	if len(children) == 0 {
		return updated, nil
	}
	if err := s.cascadeCompletion(ctx, id, children, completed, at); err != nil {
		return updated, err
	}
	return updated, nil
}

// cascadeCompletion is the one-way completion cascade rule: completing a
// package-level step completes its matched children with the same
// completion date, un-completing reverses that set. Children never
// propagate upward. Each child is updated individually; failures do not
// roll back siblings that already applied.
func (s *progressService) cascadeCompletion(ctx context.Context, parentID string, childIDs []string, completed bool, at time.Time) error {
	var failed []string
	var errs []error
	for _, childID := range childIDs {
		child, err := s.steps.FindByID(ctx, childID)
		if err != nil {
			failed = append(failed, childID)
			errs = append(errs, fmt.Errorf("load %s: %w", childID, err))
			continue
		}
		progress.MarkCompleted(child, completed, at)
		if _, err := s.steps.Update(ctx, child); err != nil {
			failed = append(failed, childID)
			errs = append(errs, fmt.Errorf("update %s: %w", childID, err))
		}
	}
	if len(failed) > 0 {
		return &PartialCascadeError{StepID: parentID, FailedIDs: failed, Errs: errs}
	}
	return nil
}

func (s *progressService) SetMilestoneDeadline(ctx context.Context, id string, milestone string, date string) (*model.ProgressStep, error) {
	m, ok := model.ParseMilestone(milestone)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadMilestone, milestone)
	}
	deadline, err := progress.ParseDeadline(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDate, err)
	}
	step, err := s.loadStep(ctx, id)
	if err != nil {
		return nil, err
	}
	progress.SetMilestoneDeadline(step, m, deadline)
	return s.update(ctx, step)
}

func (s *progressService) CompleteMilestone(ctx context.Context, id string, milestone string) (*model.ProgressStep, error) {
	m, ok := model.ParseMilestone(milestone)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadMilestone, milestone)
	}
	step, err := s.loadStep(ctx, id)
	if err != nil {
		return nil, err
	}
	progress.CompleteMilestone(step, m, s.now())
	return s.update(ctx, step)
}

func (s *progressService) UncompleteMilestone(ctx context.Context, id string, milestone string) (*model.ProgressStep, error) {
	m, ok := model.ParseMilestone(milestone)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadMilestone, milestone)
	}
	step, err := s.loadStep(ctx, id)
	if err != nil {
		return nil, err
	}
	progress.UncompleteMilestone(step, m)
	return s.update(ctx, step)
}

func (s *progressService) loadStep(ctx context.Context, id string) (*model.ProgressStep, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	step, err := s.steps.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return step, nil
}

func (s *progressService) update(ctx context.Context, step *model.ProgressStep) (*model.ProgressStep, error) {
	updated, err := s.steps.Update(ctx, step)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// logDegraded records a read-side collaborator failure that was absorbed
// into an empty result.
func logDegraded(collaborator, clientID string, err error) {
	entry := map[string]any{
		"ts":           time.Now().UTC().Format(time.RFC3339Nano),
		"level":        "warn",
		"msg":          "read degraded to empty data",
		"collaborator": collaborator,
		"client_id":    clientID,
		"error":        err.Error(),
	}
	if b, err := json.Marshal(entry); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
