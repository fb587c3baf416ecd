package progress

import (
	"fmt"
	"time"

	"progressapi/internal/model"
)

// Default milestone offsets used for synthesized package nodes.
const (
	defaultOnboardingDays  = 7
	defaultFirstDraftDays  = 14
	defaultSecondDraftDays = 21
)

// deadlineLayouts are accepted on milestone-deadline writes, tried in order.
var deadlineLayouts = []string{time.RFC3339, "2006-01-02"}

// IsOverdue is the canonical overdue predicate: an item is overdue iff it is
// incomplete and its deadline is set and in the past. The same shape applies
// to a step's own deadline and to each milestone independently.
func IsOverdue(deadline *time.Time, completed bool, now time.Time) bool {
	if completed || deadline == nil || deadline.IsZero() {
		return false
	}
	return now.After(*deadline)
}

// IsStepOverdue applies the overdue predicate to a step's own deadline.
func IsStepOverdue(s model.ProgressStep, now time.Time) bool {
	return IsOverdue(&s.Deadline, s.Completed, now)
}

// IsMilestoneOverdue applies the overdue predicate to one of a package
// step's three milestones.
func IsMilestoneOverdue(s model.ProgressStep, m model.Milestone, now time.Time) bool {
	switch m {
	case model.MilestoneOnboarding:
		return IsOverdue(s.OnboardingDeadline, s.OnboardingCompleted, now)
	case model.MilestoneFirstDraft:
		return IsOverdue(s.FirstDraftDeadline, s.FirstDraftCompleted, now)
	case model.MilestoneSecondDraft:
		return IsOverdue(s.SecondDraftDeadline, s.SecondDraftCompleted, now)
	}
	return false
}

// DefaultMilestoneDeadlines returns the 7/14/21-day default milestone dates
// relative to now.
func DefaultMilestoneDeadlines(now time.Time) (onboarding, firstDraft, secondDraft time.Time) {
	return now.AddDate(0, 0, defaultOnboardingDays),
		now.AddDate(0, 0, defaultFirstDraftDays),
		now.AddDate(0, 0, defaultSecondDraftDays)
}

// ParseDeadline parses a deadline value supplied by a caller. Past dates are
// accepted; preventing them is a UI concern, not a data invariant.
func ParseDeadline(value string) (time.Time, error) {
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable deadline %q", value)
}

// SetMilestoneDeadline rewrites exactly one milestone-deadline field,
// leaving the milestone's completion state and the other two milestones
// untouched.
func SetMilestoneDeadline(s *model.ProgressStep, m model.Milestone, deadline time.Time) {
	d := deadline
	switch m {
	case model.MilestoneOnboarding:
		s.OnboardingDeadline = &d
	case model.MilestoneFirstDraft:
		s.FirstDraftDeadline = &d
	case model.MilestoneSecondDraft:
		s.SecondDraftDeadline = &d
	}
}

// CompleteMilestone records the milestone's flag and completion timestamp.
func CompleteMilestone(s *model.ProgressStep, m model.Milestone, at time.Time) {
	t := at
	switch m {
	case model.MilestoneOnboarding:
		s.OnboardingCompleted = true
		s.OnboardingCompletedDate = &t
	case model.MilestoneFirstDraft:
		s.FirstDraftCompleted = true
		s.FirstDraftCompletedDate = &t
	case model.MilestoneSecondDraft:
		s.SecondDraftCompleted = true
		s.SecondDraftCompletedDate = &t
	}
}

// UncompleteMilestone clears both the flag and the completion timestamp.
func UncompleteMilestone(s *model.ProgressStep, m model.Milestone) {
	switch m {
	case model.MilestoneOnboarding:
		s.OnboardingCompleted = false
		s.OnboardingCompletedDate = nil
	case model.MilestoneFirstDraft:
		s.FirstDraftCompleted = false
		s.FirstDraftCompletedDate = nil
	case model.MilestoneSecondDraft:
		s.SecondDraftCompleted = false
		s.SecondDraftCompletedDate = nil
	}
}

// MarkCompleted sets a step's general completion state, keeping the
// completed/completedDate invariant: the date is present iff completed.
func MarkCompleted(s *model.ProgressStep, completed bool, at time.Time) {
	s.Completed = completed
	if completed {
		t := at
		s.CompletedDate = &t
	} else {
		s.CompletedDate = nil
	}
}
