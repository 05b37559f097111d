// Package session implements the bounded interview state machine and the
// session repository that owns accumulated answers.
package session

import (
	"fmt"

	"github.com/google/uuid"
)

// OutOfSequenceError indicates a turn was requested after the step budget
// was exhausted. The caller must request a reveal instead.
type OutOfSequenceError struct {
	Answered int
	Limit    int
}

func (e *OutOfSequenceError) Error() string {
	return fmt.Sprintf("already have %d of %d answers: request a reveal instead of another question", e.Answered, e.Limit)
}

// IncompleteError indicates a reveal was requested before enough turns were
// collected.
type IncompleteError struct {
	Answered int
	Limit    int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("need %d answers for a reveal, have %d: keep asking questions", e.Limit, e.Answered)
}

// SessionClosedError indicates an operation on a session that has already
// emitted its reveal.
type SessionClosedError struct {
	ID uuid.UUID
}

func (e *SessionClosedError) Error() string {
	return fmt.Sprintf("session %s is closed: reveal already emitted", e.ID)
}

// NotFoundError indicates an unknown session identifier.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session not found: %s", e.ID)
}

// StepMismatchError indicates an append whose implied step index does not
// match the session's current length, which would corrupt turn ordering.
type StepMismatchError struct {
	ID       uuid.UUID
	Expected int
	Got      int
}

func (e *StepMismatchError) Error() string {
	return fmt.Sprintf("session %s: expected step %d, got %d", e.ID, e.Expected, e.Got)
}
