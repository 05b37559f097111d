// Package types defines the shared document types exchanged between the
// interview engine, the oracle contract validator, and the HTTP API.
package types

// Phase names the band of the interview a question belongs to.
type Phase string

// Interview phases in order. Each phase covers three consecutive steps.
const (
	PhaseFoundation  Phase = "foundation"
	PhaseIdentity    Phase = "identity"
	PhasePersonality Phase = "personality"
	PhaseLifestyle   Phase = "lifestyle"
	PhaseRefinement  Phase = "refinement"
)

// Phases lists every valid phase in interview order.
var Phases = []Phase{PhaseFoundation, PhaseIdentity, PhasePersonality, PhaseLifestyle, PhaseRefinement}

// ValidPhase reports whether p is one of the fixed phase set.
func ValidPhase(p Phase) bool {
	for _, v := range Phases {
		if p == v {
			return true
		}
	}
	return false
}

// EscapeOption is the literal final option every question must offer.
const EscapeOption = "None of these – let me explain"

// ArchetypeCandidate is one entry of the model's running theory meter.
type ArchetypeCandidate struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
}

// RunningTheory is the model's live read on the giftee, surfaced to the UI
// from the fourth question onward.
type RunningTheory struct {
	LikelyArchetypes []ArchetypeCandidate `json:"likelyArchetypes"`
	GiftDirection    []string             `json:"giftDirection"`
}

// TurnDocument is one question-mode response from the oracle after
// validation. Reveal is always false.
type TurnDocument struct {
	Reveal                bool           `json:"reveal"`
	QuestionNumber        int            `json:"questionNumber"`
	Phase                 Phase          `json:"phase"`
	Question              string         `json:"question"`
	Options               []string       `json:"options"`
	ConfidenceScore       int            `json:"confidenceScore"`
	PsychologicalInsights string         `json:"psychologicalInsights,omitempty"`
	RunningTheory         *RunningTheory `json:"runningTheory,omitempty"`
	NaraComment           string         `json:"naraComment,omitempty"`
	IsRefinementQuestion  bool           `json:"isRefinementQuestion,omitempty"`
}

// Answer is one answered turn as submitted by the caller. Custom marks a
// free-text answer given through the escape option instead of a listed one.
type Answer struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer"`
	Custom   bool   `json:"custom,omitempty"`
}
