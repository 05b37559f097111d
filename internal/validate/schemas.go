package validate

import (
	_ "embed"
)

// JSON Schemas for the structural gate, embedded at compile time. They cover
// only the shape the validator cannot correct: presence and types. Step
// index, phase, and confidence drift are handled after the gate, so they are
// deliberately absent here.

//go:embed turn_schema.json
var turnSchema string

//go:embed reveal_schema.json
var revealSchema string
