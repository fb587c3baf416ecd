package model

import "time"

// Milestone names one of the three package-level deadlines.
type Milestone string

const (
	MilestoneOnboarding  Milestone = "onboarding"
	MilestoneFirstDraft  Milestone = "first_draft"
	MilestoneSecondDraft Milestone = "second_draft"
)

// ParseMilestone maps a route/body value to a Milestone. The second return
// value is false for anything that is not one of the three known names.
func ParseMilestone(s string) (Milestone, bool) {
	switch Milestone(s) {
	case MilestoneOnboarding, MilestoneFirstDraft, MilestoneSecondDraft:
		return Milestone(s), true
	}
	return "", false
}

// ProgressStep is a trackable milestone belonging to exactly one client.
// It can represent a whole package, one component of a package, or a
// free-standing task. This is a pure domain model with no persistence tags.
//
// PackageID/ComponentID are the steady-state correlation keys, set when the
// step is created for a package or component. Steps created before those
// columns existed carry empty keys and are correlated by title during
// hierarchy building.
type ProgressStep struct {
	ID            string     `json:"id"`
	ClientID      string     `json:"client_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Deadline      time.Time  `json:"deadline"`
	Completed     bool       `json:"completed"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
	Important     bool       `json:"important"`

	PackageID   string `json:"package_id,omitempty"`
	ComponentID string `json:"component_id,omitempty"`

	// Package-level milestone fields. Empty/false on component and
	// standalone steps.
	OnboardingDeadline       *time.Time `json:"onboarding_deadline,omitempty"`
	FirstDraftDeadline       *time.Time `json:"first_draft_deadline,omitempty"`
	SecondDraftDeadline      *time.Time `json:"second_draft_deadline,omitempty"`
	OnboardingCompleted      bool       `json:"onboarding_completed"`
	FirstDraftCompleted      bool       `json:"first_draft_completed"`
	SecondDraftCompleted     bool       `json:"second_draft_completed"`
	OnboardingCompletedDate  *time.Time `json:"onboarding_completed_date,omitempty"`
	FirstDraftCompletedDate  *time.Time `json:"first_draft_completed_date,omitempty"`
	SecondDraftCompletedDate *time.Time `json:"second_draft_completed_date,omitempty"`

	// Comments are populated on detail reads only; list operations leave
	// this nil.
	Comments []Comment `json:"comments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// HierarchicalStep is a read-only projection of a ProgressStep decorated
// with grouping information. It is built fresh on every read and never
// persisted.
type HierarchicalStep struct {
	ProgressStep

	IsPackage   bool   `json:"is_package"`
	PackageName string `json:"package_name,omitempty"`

	// Virtual marks a synthesized package node that has no backing row.
	Virtual bool `json:"virtual,omitempty"`

	Children []HierarchicalStep `json:"children,omitempty"`
}

// ClientStatus is the aggregate progress summary for one client, computed
// over the client's flat step list.
type ClientStatus struct {
	CompletedSteps int  `json:"completed_steps"`
	TotalSteps     int  `json:"total_steps"`
	Percentage     int  `json:"percentage"`
	OverdueCount   int  `json:"overdue_count"`
	HasOverdue     bool `json:"has_overdue"`
}
