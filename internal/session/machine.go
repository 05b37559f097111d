package session

import "github.com/nara/giftinator/internal/types"

// Step budgets for the two interview protocols.
const (
	// StepLimit is the number of questions in the primary interview.
	StepLimit = 15
	// RefinementLimit is the size of the post-reveal follow-up batch.
	RefinementLimit = 5
)

// Band is an inclusive confidence-score range for a step.
type Band struct {
	Min int
	Max int
}

// Contains reports whether score lies within the band.
func (b Band) Contains(score int) bool {
	return score >= b.Min && score <= b.Max
}

// Clamp forces score into the band.
func (b Band) Clamp(score int) int {
	if score < b.Min {
		return b.Min
	}
	if score > b.Max {
		return b.Max
	}
	return score
}

// Expectation is what the next oracle response must look like for a given
// answer count: its step index, phase tag, and confidence band.
type Expectation struct {
	Step  int
	Phase types.Phase
	Band  Band
}

// Machine decides which operation is legal for an accumulated answer count
// and computes the expectation for the next turn. The refinement sub-protocol
// is the same machine with a smaller limit; its turns are all tagged with the
// refinement phase.
type Machine struct {
	Limit      int
	Refinement bool
}

// Interview returns the machine for the primary 15-step interview.
func Interview() Machine {
	return Machine{Limit: StepLimit}
}

// Refine returns the machine for the post-reveal follow-up batch.
func Refine() Machine {
	return Machine{Limit: RefinementLimit, Refinement: true}
}

// CheckTurn reports whether another question is legal with answered answers
// collected. Fails with OutOfSequenceError once the budget is exhausted.
func (m Machine) CheckTurn(answered int) error {
	if answered >= m.Limit {
		return &OutOfSequenceError{Answered: answered, Limit: m.Limit}
	}
	return nil
}

// CheckReveal reports whether a reveal is legal with answered answers
// collected. Fails with IncompleteError until the budget is met.
func (m Machine) CheckReveal(answered int) error {
	if answered < m.Limit {
		return &IncompleteError{Answered: answered, Limit: m.Limit}
	}
	return nil
}

// Expect computes the expected step, phase, and confidence band for the
// turn that follows answered collected answers.
func (m Machine) Expect(answered int) Expectation {
	step := answered + 1
	phase := PhaseForStep(step)
	if m.Refinement {
		phase = types.PhaseRefinement
	}
	return Expectation{Step: step, Phase: phase, Band: BandForStep(step)}
}

// PhaseForStep maps a step index to its canonical phase. The fifteen steps
// split into five bands of three. Total over all integers: indices below the
// valid range map to the first phase, above it to the last.
func PhaseForStep(step int) types.Phase {
	switch {
	case step <= 3:
		return types.PhaseFoundation
	case step <= 6:
		return types.PhaseIdentity
	case step <= 9:
		return types.PhasePersonality
	case step <= 12:
		return types.PhaseLifestyle
	default:
		return types.PhaseRefinement
	}
}

// BandForStep maps a step index to its confidence band. Both endpoints are
// non-decreasing in the step index.
func BandForStep(step int) Band {
	switch {
	case step <= 4:
		return Band{Min: 15, Max: 35}
	case step <= 8:
		return Band{Min: 40, Max: 60}
	case step <= 12:
		return Band{Min: 65, Max: 80}
	default:
		return Band{Min: 85, Max: 95}
	}
}
