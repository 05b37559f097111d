package validate

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/nara/giftinator/internal/parse"
	"github.com/nara/giftinator/internal/session"
	"github.com/nara/giftinator/internal/types"
)

// Config holds the contract bounds. Observed deployments disagree on the
// exact values, so they are configuration rather than literals.
type Config struct {
	// OptionCount is the required options length for a question. A zero-length
	// options list is also accepted: free-text questions offer no choices.
	OptionCount int
	// MinGifts and MaxGifts bound the recommendation count in a reveal.
	MinGifts int
	MaxGifts int
}

// DefaultConfig returns the production contract bounds.
func DefaultConfig() Config {
	return Config{OptionCount: 4, MinGifts: 3, MaxGifts: 7}
}

// RequiredGiftFields lists the fields every recommendation entry must carry.
var RequiredGiftFields = []string{
	"giftName",
	"whyItsPerfect",
	"whatItConnectsTo",
	"experienceItCreates",
	"amazonSearch",
	"presentationIdea",
}

// Validator checks parsed oracle documents against the per-mode contract.
type Validator struct {
	cfg    Config
	turn   *gojsonschema.Schema
	reveal *gojsonschema.Schema
}

// New compiles the embedded schemas and returns a Validator.
func New(cfg Config) (*Validator, error) {
	turn, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(turnSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile turn schema: %w", err)
	}
	reveal, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(revealSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile reveal schema: %w", err)
	}
	return &Validator{cfg: cfg, turn: turn, reveal: reveal}, nil
}

// ValidateTurn checks a parsed document against the question-mode contract
// and corrects recoverable drift against the machine's expectation:
//
//   - step index and phase are rewritten to the expected values
//   - confidence is clamped into the expected band
//   - a wrong or missing escape option is rewritten in place
//
// Missing question text or a malformed options list is a hard failure.
// Validation is idempotent: an already-valid document comes back unchanged.
func (v *Validator) ValidateTurn(doc *parse.Document, exp session.Expectation) (*types.TurnDocument, error) {
	if doc.IsReveal() {
		return nil, &ModeMismatchError{WantReveal: false}
	}
	turn := doc.Turn

	result, err := v.turn.Validate(gojsonschema.NewGoLoader(turn))
	if err != nil {
		return nil, fmt.Errorf("turn schema validation failed: %w", err)
	}
	if !result.Valid() {
		return nil, &MalformedTurnError{Fields: fieldsOf(result)}
	}

	if n := len(turn.Options); n != 0 && n != v.cfg.OptionCount {
		return nil, &MalformedTurnError{Fields: []string{fmt.Sprintf("options (want %d entries or none, got %d)", v.cfg.OptionCount, n)}}
	}
	if n := len(turn.Options); n > 0 && turn.Options[n-1] != types.EscapeOption {
		turn.Options[n-1] = types.EscapeOption
	}

	turn.Reveal = false
	turn.QuestionNumber = exp.Step
	turn.Phase = exp.Phase
	turn.ConfidenceScore = exp.Band.Clamp(turn.ConfidenceScore)

	return turn, nil
}

// ValidateReveal checks a parsed document against the reveal-mode contract.
// Reveal violations are never repaired: recommendations cannot be safely
// invented, so every failure is a typed hard error.
func (v *Validator) ValidateReveal(doc *parse.Document) (*types.RevealDocument, error) {
	if !doc.IsReveal() {
		return nil, &ModeMismatchError{WantReveal: true}
	}
	reveal := doc.Reveal

	result, err := v.reveal.Validate(gojsonschema.NewGoLoader(reveal))
	if err != nil {
		return nil, fmt.Errorf("reveal schema validation failed: %w", err)
	}
	if !result.Valid() {
		return nil, &MalformedRevealError{Fields: fieldsOf(result)}
	}

	if n := len(reveal.Gifts); n < v.cfg.MinGifts || n > v.cfg.MaxGifts {
		return nil, &CountViolationError{Count: n, Min: v.cfg.MinGifts, Max: v.cfg.MaxGifts}
	}

	for i, gift := range reveal.Gifts {
		if field := missingGiftField(gift); field != "" {
			return nil, &IncompleteRecommendationError{Index: i + 1, Field: field}
		}
	}

	return reveal, nil
}

// missingGiftField returns the name of the first empty required field, or "".
func missingGiftField(g types.Gift) string {
	values := map[string]string{
		"giftName":            g.GiftName,
		"whyItsPerfect":       g.WhyItsPerfect,
		"whatItConnectsTo":    g.WhatItConnectsTo,
		"experienceItCreates": g.ExperienceItCreates,
		"amazonSearch":        g.AmazonSearch,
		"presentationIdea":    g.PresentationIdea,
	}
	for _, field := range RequiredGiftFields {
		if values[field] == "" {
			return field
		}
	}
	return ""
}

// fieldsOf flattens schema validation failures into field descriptions.
func fieldsOf(result *gojsonschema.Result) []string {
	fields := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		fields = append(fields, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return fields
}
