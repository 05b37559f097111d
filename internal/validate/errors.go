// Package validate enforces the per-mode oracle response contract: required
// fields, enumerated values, and cardinality. Numeric and categorical drift
// (step counters, phase tags, confidence scores) is corrected in place;
// missing semantic content is never fabricated and surfaces as a typed error
// so the caller can retry the oracle call.
package validate

import (
	"fmt"
	"strings"
)

// ModeMismatchError indicates the oracle answered in the wrong mode, e.g.
// attempted a reveal during the interview.
type ModeMismatchError struct {
	WantReveal bool
}

func (e *ModeMismatchError) Error() string {
	if e.WantReveal {
		return "mode mismatch: expected a reveal document, got a question"
	}
	return "mode mismatch: expected a question, got a reveal document"
}

// MalformedTurnError indicates a question-mode document missing content that
// cannot be safely invented (question text, options list).
type MalformedTurnError struct {
	Fields []string
}

func (e *MalformedTurnError) Error() string {
	return "malformed question payload: " + strings.Join(e.Fields, ", ")
}

// MalformedRevealError indicates a reveal document missing its archetype or
// rationale, which cannot be safely invented.
type MalformedRevealError struct {
	Fields []string
}

func (e *MalformedRevealError) Error() string {
	return "malformed reveal payload: " + strings.Join(e.Fields, ", ")
}

// CountViolationError indicates a reveal whose recommendation count falls
// outside the configured bounds. The list is never truncated or padded.
type CountViolationError struct {
	Count int
	Min   int
	Max   int
}

func (e *CountViolationError) Error() string {
	return fmt.Sprintf("reveal must include %d-%d gifts, got %d", e.Min, e.Max, e.Count)
}

// IncompleteRecommendationError identifies which gift entry is missing which
// required field.
type IncompleteRecommendationError struct {
	Index int // 1-based, for display
	Field string
}

func (e *IncompleteRecommendationError) Error() string {
	return fmt.Sprintf("gift #%d missing required field %q", e.Index, e.Field)
}
