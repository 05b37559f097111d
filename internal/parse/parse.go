// Package parse turns raw oracle output into structured documents. Oracle
// text is untrusted: it may be syntactically broken (stray control
// characters inside string values are common) or carry the wrong mode. The
// parser handles syntax; per-mode contract checks live in internal/validate.
package parse

import (
	"encoding/json"
	"strings"

	"github.com/nara/giftinator/internal/types"
)

// UnparseableError indicates oracle output that is not recoverable JSON even
// after the repair pass. Retryable: re-issuing the same call is expected to
// succeed.
type UnparseableError struct {
	Raw   string
	Cause error
}

func (e *UnparseableError) Error() string {
	return "oracle returned unparseable JSON: " + e.Cause.Error()
}

func (e *UnparseableError) Unwrap() error {
	return e.Cause
}

// Document is the closed set of shapes an oracle response can decode into.
// Exactly one of Turn and Reveal is set, keyed by the mode flag.
type Document struct {
	Turn   *types.TurnDocument
	Reveal *types.RevealDocument
}

// IsReveal reports which variant the document holds.
func (d *Document) IsReveal() bool {
	return d.Reveal != nil
}

// Parse decodes raw oracle text into a Document. On a syntax failure it
// applies one whitespace-normalization repair pass and retries exactly once;
// if that also fails it returns UnparseableError.
func Parse(raw string) (*Document, error) {
	doc, err := decode(raw)
	if err == nil {
		return doc, nil
	}

	doc, repairErr := decode(repair(raw))
	if repairErr == nil {
		return doc, nil
	}

	return nil, &UnparseableError{Raw: raw, Cause: err}
}

// envelope is the minimal shape needed to pick the variant.
type envelope struct {
	Reveal bool `json:"reveal"`
}

func decode(raw string) (*Document, error) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, err
	}

	if env.Reveal {
		var reveal types.RevealDocument
		if err := json.Unmarshal([]byte(raw), &reveal); err != nil {
			return nil, err
		}
		return &Document{Reveal: &reveal}, nil
	}

	var turn types.TurnDocument
	if err := json.Unmarshal([]byte(raw), &turn); err != nil {
		return nil, err
	}
	return &Document{Turn: &turn}, nil
}

// repair collapses literal newlines, carriage returns, and tabs to spaces.
// Models occasionally emit them raw inside string values, which breaks
// strict JSON decoding.
func repair(raw string) string {
	r := strings.NewReplacer("\n", " ", "\r", "", "\t", " ")
	return strings.TrimSpace(r.Replace(raw))
}
