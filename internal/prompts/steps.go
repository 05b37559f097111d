package prompts

// StepGuide is the content plan for one interview step. Keeping the plans in
// a table keeps per-step content data-driven and testable independently of
// the orchestration logic.
type StepGuide struct {
	// Focus names what the step is digging for.
	Focus string
	// Direction is the instruction handed to the oracle for the question.
	Direction string
	// Options suggests the three concrete choices; empty means the question
	// takes free text with no options.
	Options []string
}

// stepGuides holds the plan for each of the fifteen steps, indexed by
// step - 1.
var stepGuides = [15]StepGuide{
	{
		Focus:     "name",
		Direction: `Ask for the giftee's name. No options: set options to an empty array and just ask "What's their name?"`,
	},
	{
		Focus:     "relationship",
		Direction: `Ask about the relationship and emotional closeness: "What's your relationship with them?"`,
		Options:   []string{"Partner/spouse", "Best friend/close friend", "Family member"},
	},
	{
		Focus:     "life stage",
		Direction: "Ask for their age and current stage of life in one question.",
		Options:   []string{"Young adult (18-25)", "Established adult (26-40)", "Mid-life or beyond"},
	},
	{
		Focus:     "unprompted topics",
		Direction: "Ask what topic they bring up the most when just hanging out. Options must be very different categories.",
		Options:   []string{"Work/career stuff", "Creative projects/hobbies", "People/relationships/drama"},
	},
	{
		Focus:     "aspirations",
		Direction: "Ask what they've mentioned wanting to be better at or learn. This reveals aspiration versus current state.",
		Options:   []string{"A creative skill", "A physical/fitness thing", "A professional skill"},
	},
	{
		Focus:     "social identity",
		Direction: "Ask how their friends would describe them in one word. Options must be opposites.",
		Options:   []string{"The organized/responsible one", "The spontaneous/fun one", "The deep/philosophical one"},
	},
	{
		Focus:     "core values",
		Direction: "Ask what they would actually do with a free weekend and unlimited money. This reveals core values and energy type.",
		Options:   []string{"Adventure/travel something new", "Master a skill/deep focus on a hobby", "Total relaxation/do nothing"},
	},
	{
		Focus:     "energy patterns",
		Direction: "Ask when during the day they are most likely to hit a wall. This reveals rhythms and stress patterns.",
		Options:   []string{"Morning (hard to start)", "Afternoon (post-lunch slump)", "Evening (crashes early)"},
	},
	{
		Focus:     "living space",
		Direction: "Ask what's the most annoying thing about where they live right now. This reveals practical constraints for gifts.",
		Options:   []string{"Too small/cluttered", "Too cold/uncomfortable", "Too boring/sterile"},
	},
	{
		Focus:     "neglected loves",
		Direction: "Ask what they say they love doing but rarely make time for. This reveals what's missing in their life.",
		Options:   []string{"A hobby/creative thing", "Exercise/movement", "Socializing/going out"},
	},
	{
		Focus:     "recharge mode",
		Direction: "Ask when you last saw them genuinely relaxed and happy. This reveals how they recharge.",
		Options:   []string{"Doing something active", "Making/creating something", "Just being cozy at home"},
	},
	{
		Focus:     "aesthetics",
		Direction: "Ask what colors, textures, or vibes they are naturally drawn to. This determines the aesthetic for physical gifts.",
		Options:   []string{"Earth tones, natural materials, cozy", "Bold colors, modern, sleek", "Soft pastels, delicate"},
	},
	{
		Focus:     "budget and occasion",
		Direction: "Ask for the budget and when the gift is needed.",
		Options:   []string{"Under $30 - just because gift", "$30-75 - birthday/holiday", "$75+ - special occasion"},
	},
	{
		Focus:     "past gift misses",
		Direction: "Ask what gift they've received before that totally missed the mark. This prevents repeating mistakes.",
		Options:   []string{"Too generic/impersonal", "Not their style/taste", "Something they'd never use"},
	},
	{
		Focus:     "unmet needs",
		Direction: "Ask what they need but are too practical to buy for themselves. This is the gift opportunity sweet spot.",
		Options:   []string{"Something to make their space better", "Something for their health/wellness", "Something purely for enjoyment"},
	},
}

// GuideForStep returns the content plan for a 1-based step index. Steps
// outside the table get a generic follow-up plan, which is what refinement
// turns use.
func GuideForStep(step int) StepGuide {
	if step >= 1 && step <= len(stepGuides) {
		return stepGuides[step-1]
	}
	return StepGuide{
		Focus:     "follow-up",
		Direction: "Ask one targeted follow-up question that digs into what the giver actually wants.",
	}
}
