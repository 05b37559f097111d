// Package analytics records terminal session facts, link clicks, and giver
// feedback. Writes are a best-effort side channel: callers fire them after
// the primary response is built and log failures without surfacing them.
package analytics

import (
	"context"
	"time"
)

// SessionFact is the terminal record of one interview run.
type SessionFact struct {
	SessionID   string    `json:"sessionId"`
	Archetype   string    `json:"archetype"`
	AnswerCount int       `json:"answersCount"`
	Timestamp   time.Time `json:"timestamp"`
}

// Click records one tap on a recommendation link.
type Click struct {
	SessionID string    `json:"sessionId"`
	Gift      string    `json:"gift"`
	Archetype string    `json:"archetype"`
	Timestamp time.Time `json:"timestamp"`
}

// Feedback records the giver's read on a finished reveal. GiftRatings maps
// gift name to a rating word ("love", "meh", "miss").
type Feedback struct {
	SessionID   string            `json:"sessionId"`
	Accuracy    string            `json:"accuracy"`
	Archetype   string            `json:"archetype"`
	GiftRatings map[string]string `json:"giftRatings,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Recorder is the write side of the analytics channel.
type Recorder interface {
	RecordSession(ctx context.Context, fact SessionFact) error
	RecordClick(ctx context.Context, click Click) error
	RecordFeedback(ctx context.Context, fb Feedback) error
}

// Noop is a Recorder that drops everything, used when no database is
// configured.
type Noop struct{}

// RecordSession discards the fact.
func (Noop) RecordSession(context.Context, SessionFact) error { return nil }

// RecordClick discards the click.
func (Noop) RecordClick(context.Context, Click) error { return nil }

// RecordFeedback discards the feedback.
func (Noop) RecordFeedback(context.Context, Feedback) error { return nil }
