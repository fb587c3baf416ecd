package service

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors: malformed input to a mutation. Surfaced synchronously,
// nothing partial is written.
var (
	ErrIDRequired       = errors.New("id is required")
	ErrClientIDRequired = errors.New("client id is required")
	ErrTitleRequired    = errors.New("title is required")
	ErrDeadlineRequired = errors.New("deadline is required")
	ErrEmptyComment     = errors.New("comment requires text or an attachment")
	ErrAuthorRequired   = errors.New("author is required")
	ErrNameRequired     = errors.New("name is required")
	ErrURLRequired      = errors.New("url is required")
	ErrBadMilestone     = errors.New("unknown milestone")
	ErrBadDate          = errors.New("unparseable date")
)

// ErrNotFound means the operation referenced a step/comment/file/link id the
// store does not have.
var ErrNotFound = errors.New("not found")

// IsValidationError reports whether err is one of the validation sentinels,
// so the HTTP layer can map it to a 400 without enumerating them.
func IsValidationError(err error) bool {
	for _, sentinel := range []error{
		ErrIDRequired, ErrClientIDRequired, ErrTitleRequired, ErrDeadlineRequired,
		ErrEmptyComment, ErrAuthorRequired, ErrNameRequired, ErrURLRequired,
		ErrBadMilestone, ErrBadDate,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// PartialCascadeError reports a package completion cascade that updated the
// parent but did not reach every child: one or more child updates failed, or
// the children could not be enumerated at all (empty FailedIDs). Applied
// updates are not rolled back; FailedIDs tells the caller which children to
// retry when they are known.
type PartialCascadeError struct {
	StepID    string
	FailedIDs []string
	Errs      []error
}

func (e *PartialCascadeError) Error() string {
	if len(e.FailedIDs) == 0 {
		return fmt.Sprintf("cascade from step %s could not enumerate children: %v",
			e.StepID, errors.Join(e.Errs...))
	}
	return fmt.Sprintf("cascade from step %s failed for children [%s]: %v",
		e.StepID, strings.Join(e.FailedIDs, ", "), errors.Join(e.Errs...))
}

func (e *PartialCascadeError) Unwrap() []error { return e.Errs }
