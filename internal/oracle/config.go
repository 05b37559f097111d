// Package oracle wraps the external text-generation service the interview
// runs against. The service is treated as non-deterministic: it returns raw
// text that downstream parsing and validation must not trust.
package oracle

import "time"

// Mode selects the generation settings for the kind of turn being requested.
type Mode string

// Generation modes. Questions are short and cheap; reveals are long-form.
const (
	ModeQuestion       Mode = "question"
	ModeReveal         Mode = "reveal"
	ModeRefineQuestion Mode = "refine-question"
	ModeRefineReveal   Mode = "refine-reveal"
)

// ModeSettings holds the per-mode generation parameters.
type ModeSettings struct {
	Model       string
	Temperature float32
	MaxTokens   int32
	Timeout     time.Duration
}

// Config maps each mode to its generation settings.
type Config struct {
	Settings map[Mode]ModeSettings
}

// DefaultConfig returns the default Gemini configuration. Question turns use
// the fast model with a tight token budget; reveals get the larger model and
// room for the full document.
func DefaultConfig() *Config {
	return &Config{
		Settings: map[Mode]ModeSettings{
			ModeQuestion:       {Model: "gemini-2.5-flash", Temperature: 0.7, MaxTokens: 500, Timeout: 90 * time.Second},
			ModeReveal:         {Model: "gemini-2.5-pro", Temperature: 0.6, MaxTokens: 3000, Timeout: 45 * time.Second},
			ModeRefineQuestion: {Model: "gemini-2.5-flash", Temperature: 0.7, MaxTokens: 500, Timeout: 30 * time.Second},
			ModeRefineReveal:   {Model: "gemini-2.5-pro", Temperature: 0.7, MaxTokens: 3000, Timeout: 45 * time.Second},
		},
	}
}

// ForMode returns the settings for a mode, falling back to the question
// settings if the mode is unknown.
func (c *Config) ForMode(m Mode) ModeSettings {
	if s, ok := c.Settings[m]; ok {
		return s
	}
	return c.Settings[ModeQuestion]
}
