package exam

import (
	"errors"
	"fmt"
)

// Conditions reported to the caller. None of them is fatal; all leave state
// unchanged except FinalizationError, which leaves the session active for retry.
var (
	// ErrNoActiveSession is reported when answer/resume/abandon is called for
	// a user without a persisted active session
	ErrNoActiveSession = errors.New("no active test session")

	// ErrInvalidChoice is reported when the submitted choice label is not
	// among the current question's choices
	ErrInvalidChoice = errors.New("invalid choice label")

	// ErrNoWeakTopics signals an empty weak-topic pool on mini-test or
	// reevaluation start. No session is created; the caller should redirect
	// the user instead of treating this as a failure.
	ErrNoWeakTopics = errors.New("no weak topics in pool")

	// ErrNoQuestions is reported when the repository cannot supply a single
	// question for the requested test. No session is created.
	ErrNoQuestions = errors.New("no questions available")

	// ErrNoPendingAnswer is reported when Complete is called but the session
	// still has an unanswered question
	ErrNoPendingAnswer = errors.New("session is not fully answered yet")
)

// FinalizationError wraps a failed finalization commit. The session remains
// active and the caller may retry via Complete.
type FinalizationError struct {
	Err error
}

func (e *FinalizationError) Error() string {
	return fmt.Sprintf("finalization failed: %v", e.Err)
}

func (e *FinalizationError) Unwrap() error {
	return e.Err
}
