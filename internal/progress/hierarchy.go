// Package progress is the pure aggregation core: hierarchy building, status
// computation, and deadline predicates. Functions here take explicit data
// snapshots and a clock value, perform no I/O, and never fail on missing
// data; absent inputs yield empty output.
package progress

import (
	"sort"
	"strings"
	"time"

	"progressapi/internal/model"
)

const (
	// packageSetupSuffix is the legacy title pattern that correlates a step
	// to its package when the step predates the package_id column.
	packageSetupSuffix = " - Package Setup"

	// VirtualIDPrefix marks synthesized package nodes. Ids with this prefix
	// never exist in the step store.
	VirtualIDPrefix = "virtual-"
)

// PackageSetupTitle returns the canonical title of a package's setup step.
func PackageSetupTitle(packageName string) string {
	return packageName + packageSetupSuffix
}

// Snapshot holds the full per-client data needed to build a hierarchy.
// Callers fetch it however they like; the builder only reads it.
type Snapshot struct {
	Steps      []model.ProgressStep
	Packages   []model.Package
	Components []model.Component
}

// BuildHierarchy groups a client's flat step list into a two-level tree:
// one root node per package with its component steps as children, followed
// by standalone steps as unparented roots.
//
// Correlation prefers the explicit PackageID/ComponentID keys and falls
// back to title matching for legacy rows. Each step is claimed at most
// once; the claim set lives and dies inside this call, so the function is
// idempotent over the same snapshot.
func BuildHierarchy(snap Snapshot, now time.Time) []model.HierarchicalStep {
	steps := sortedSteps(snap.Steps)
	packages := sortedPackages(snap.Packages)

	claimed := make(map[string]bool, len(steps))
	roots := make([]model.HierarchicalStep, 0, len(packages))

	for _, pkg := range packages {
		comps := componentsOf(snap.Components, pkg.ID)
		children := matchComponentSteps(steps, pkg, comps, claimed)

		if setup := findSetupStep(steps, pkg, claimed); setup != nil {
			claimed[setup.ID] = true
			node := packageNode(*setup, pkg)
			node.Children = children
			roots = append(roots, node)
			continue
		}

		// No setup step yet: synthesize a display-only package node, but
		// only when there is something to group under it.
		if len(comps) > 0 {
			node := virtualPackageNode(pkg, now)
			node.Children = children
			roots = append(roots, node)
		}
	}

	// Everything unclaimed that is not a setup step for a real package is a
	// standalone root. Steps whose titles merely look like a setup title
	// but match no package stay standalone.
	for _, s := range steps {
		if claimed[s.ID] || isSetupFor(s, packages) {
			continue
		}
		roots = append(roots, model.HierarchicalStep{ProgressStep: s})
	}

	return roots
}

// findSetupStep locates the package-setup step for pkg: first by the
// explicit package_id key, then by the legacy title pattern.
func findSetupStep(steps []model.ProgressStep, pkg model.Package, claimed map[string]bool) *model.ProgressStep {
	for i := range steps {
		s := &steps[i]
		if claimed[s.ID] || s.ComponentID != "" {
			continue
		}
		if s.PackageID == pkg.ID {
			return s
		}
	}
	want := PackageSetupTitle(pkg.Name)
	for i := range steps {
		s := &steps[i]
		if claimed[s.ID] || s.ComponentID != "" || s.PackageID != "" {
			continue
		}
		if s.Title == want {
			return s
		}
	}
	return nil
}

// matchComponentSteps claims one step per component of pkg. Matching is
// scoped to the component's own package id, so duplicate component names
// across packages never cross-claim. Children come back sorted by creation
// time ascending.
func matchComponentSteps(steps []model.ProgressStep, pkg model.Package, comps []model.Component, claimed map[string]bool) []model.HierarchicalStep {
	children := make([]model.HierarchicalStep, 0, len(comps))
	for _, comp := range comps {
		s := findComponentStep(steps, pkg, comp, claimed)
		if s == nil {
			continue
		}
		claimed[s.ID] = true
		children = append(children, model.HierarchicalStep{ProgressStep: *s})
	}
	sort.SliceStable(children, func(i, j int) bool {
		if children[i].CreatedAt.Equal(children[j].CreatedAt) {
			return children[i].ID < children[j].ID
		}
		return children[i].CreatedAt.Before(children[j].CreatedAt)
	})
	return children
}

func findComponentStep(steps []model.ProgressStep, pkg model.Package, comp model.Component, claimed map[string]bool) *model.ProgressStep {
	for i := range steps {
		s := &steps[i]
		if claimed[s.ID] {
			continue
		}
		if s.ComponentID == comp.ID {
			return s
		}
	}
	for i := range steps {
		s := &steps[i]
		if claimed[s.ID] || s.ComponentID != "" {
			continue
		}
		// A legacy row may carry a package_id without a component_id; it
		// only matches components of that same package.
		if s.PackageID != "" && s.PackageID != pkg.ID {
			continue
		}
		if s.Title == comp.Name {
			return s
		}
	}
	return nil
}

func packageNode(s model.ProgressStep, pkg model.Package) model.HierarchicalStep {
	return model.HierarchicalStep{
		ProgressStep: s,
		IsPackage:    true,
		PackageName:  pkg.Name,
	}
}

// virtualPackageNode fabricates a non-persisted package node with default
// milestone deadlines relative to now (7/14/21 days out).
func virtualPackageNode(pkg model.Package, now time.Time) model.HierarchicalStep {
	onboarding, firstDraft, secondDraft := DefaultMilestoneDeadlines(now)
	return model.HierarchicalStep{
		ProgressStep: model.ProgressStep{
			ID:                  VirtualIDPrefix + pkg.ID,
			ClientID:            pkg.ClientID,
			Title:               PackageSetupTitle(pkg.Name),
			Deadline:            secondDraft,
			PackageID:           pkg.ID,
			OnboardingDeadline:  &onboarding,
			FirstDraftDeadline:  &firstDraft,
			SecondDraftDeadline: &secondDraft,
			CreatedAt:           now,
		},
		IsPackage:   true,
		PackageName: pkg.Name,
		Virtual:     true,
	}
}

// isSetupFor reports whether s is the setup step of one of the given
// packages, either by key or by exact title match.
func isSetupFor(s model.ProgressStep, packages []model.Package) bool {
	if s.ComponentID != "" {
		return false
	}
	if !strings.HasSuffix(s.Title, packageSetupSuffix) && s.PackageID == "" {
		return false
	}
	for _, pkg := range packages {
		if s.PackageID == pkg.ID || s.Title == PackageSetupTitle(pkg.Name) {
			return true
		}
	}
	return false
}

func componentsOf(comps []model.Component, packageID string) []model.Component {
	out := make([]model.Component, 0, len(comps))
	for _, c := range comps {
		if c.PackageID == packageID {
			out = append(out, c)
		}
	}
	return out
}

// sortedSteps returns a copy ordered by creation time ascending with id as
// tiebreak, which makes claiming deterministic.
func sortedSteps(steps []model.ProgressStep) []model.ProgressStep {
	out := make([]model.ProgressStep, len(steps))
	copy(out, steps)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// sortedPackages returns a copy in the client's package order.
func sortedPackages(packages []model.Package) []model.Package {
	out := make([]model.Package, len(packages))
	copy(out, packages)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position == out[j].Position {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Position < out[j].Position
	})
	return out
}

// MatchedChildren returns the ids of the component steps currently grouped
// under the step with parentID. It is the claim set the completion cascade
// operates on.
func MatchedChildren(snap Snapshot, parentID string, now time.Time) []string {
	for _, root := range BuildHierarchy(snap, now) {
		if root.ID != parentID {
			continue
		}
		ids := make([]string, 0, len(root.Children))
		for _, c := range root.Children {
			ids = append(ids, c.ID)
		}
		return ids
	}
	return nil
}
