package types

// Archetypes is the closed vocabulary of personality families a reveal may
// assign.
var Archetypes = []string{
	"Cozy Comfort Souls",
	"Ambitious Builders",
	"Creative Chaos Gremlins",
	"Thoughtful Caretakers",
	"Nostalgic Dreamers",
	"Aesthetic Curators",
	"Adventure Seekers",
	"Intellectual Explorers",
	"Social Butterflies",
	"Quiet Rebels",
	"Organized Perfectionists",
	"Spiritual Grounded",
}

// Gift is one recommendation entry in a reveal. The first six fields come
// from the oracle and are all required; the last three are filled in by
// link enrichment.
type Gift struct {
	GiftName            string `json:"giftName"`
	WhyItsPerfect       string `json:"whyItsPerfect"`
	WhatItConnectsTo    string `json:"whatItConnectsTo"`
	ExperienceItCreates string `json:"experienceItCreates"`
	AmazonSearch        string `json:"amazonSearch"`
	PresentationIdea    string `json:"presentationIdea"`

	AmazonURL    string `json:"amazonUrl,omitempty"`
	AmazonTitle  string `json:"amazonTitle,omitempty"`
	IsDirectLink bool   `json:"isDirectLink,omitempty"`
}

// RevealMeta carries the model's own confidence and giver-facing advice.
type RevealMeta struct {
	ModelConfidence float64 `json:"modelConfidence,omitempty"`
	NotesForGiver   string  `json:"notesForGiver,omitempty"`
	FollowUpIdeas   string  `json:"followUpIdeas,omitempty"`
}

// RevealDocument is the terminal output of an interview. Reveal is always
// true. Immutable once emitted for a session.
type RevealDocument struct {
	Reveal           bool              `json:"reveal"`
	Archetype        string            `json:"archetype"`
	ArchetypeTagline string            `json:"archetypeTagline,omitempty"`
	PersonaSnapshot  string            `json:"personaSnapshot"`
	KeyInsights      map[string]string `json:"keyInsights,omitempty"`
	Gifts            []Gift            `json:"gifts"`
	Meta             *RevealMeta       `json:"meta,omitempty"`

	SessionID    string `json:"sessionId,omitempty"`
	IsRefinement bool   `json:"isRefinement,omitempty"`
}

// GiftNames returns the display names of all gifts, used as rejected-gift
// context for refinement rounds.
func (d *RevealDocument) GiftNames() []string {
	names := make([]string, 0, len(d.Gifts))
	for _, g := range d.Gifts {
		names = append(names, g.GiftName)
	}
	return names
}
