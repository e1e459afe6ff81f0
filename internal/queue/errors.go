package queue

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a job, collection, or wanted id does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a status write loses a race with another
// writer: the row's status changed between read and write. Callers that
// claim work (rip worker, encode worker) treat this as "someone else claimed
// it" and restart their loop rather than treating it as a hard failure.
var ErrConflict = errors.New("status changed concurrently")

// InvalidTransitionError reports a status change that is not an edge in the
// job state graph (spec.md §4.1).
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}

// ErrorKind implements queue.ErrorClassifier so HTTP-facing callers can map
// this to a 400-equivalent response without type-switching on *InvalidTransitionError.
func (e *InvalidTransitionError) ErrorKind() string { return "invalid_transition" }

// ErrorClassifier lets an error declare how the control surface should map
// it onto an HTTP-equivalent outcome, mirroring the three-way split in
// spec.md §4.8 (not_found / invalid_state / ok).
type ErrorClassifier interface {
	ErrorKind() string
}

// IsInvalidTransition reports whether err (or something it wraps) is an
// InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}
