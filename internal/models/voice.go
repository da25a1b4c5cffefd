package models

import "time"

// StyleProfile is the structured writing-style description extracted from a
// user's sample posts.
type StyleProfile struct {
	Tone      string   `json:"tone"       bson:"tone"`
	Structure string   `json:"structure"  bson:"structure"`
	HookStyle string   `json:"hook_style" bson:"hook_style"`
	CTAStyle  string   `json:"cta_style"  bson:"cta_style"`
	Themes    []string `json:"themes"     bson:"themes"`
	Dos       []string `json:"dos"        bson:"dos"`
	Donts     []string `json:"donts"      bson:"donts"`
	Summary   string   `json:"summary"    bson:"summary"`
}

// Guardrails are the user-tunable constraints applied when instructing the
// generation model.
type Guardrails struct {
	PostLength string `json:"post_length" bson:"post_length"`
	Emoji      string `json:"emoji"       bson:"emoji"`
	Hashtags   string `json:"hashtags"    bson:"hashtags"`
	CTA        string `json:"cta"         bson:"cta"`
	RiskFilter string `json:"risk_filter" bson:"risk_filter"`
}

// DefaultGuardrails returns the settings applied when the user has not
// tuned anything.
func DefaultGuardrails() Guardrails {
	return Guardrails{
		PostLength: "medium",
		Emoji:      "light",
		Hashtags:   "1-3",
		CTA:        "soft",
		RiskFilter: "balanced",
	}
}

// VoiceProfile is one user's voice profile document in MongoDB. There is at
// most one per user, enforced by upsert on user_id.
type VoiceProfile struct {
	ID         string       `json:"id"         bson:"_id"`
	UserID     string       `json:"user_id"    bson:"user_id"`
	RawSamples string       `json:"raw_samples" bson:"raw_samples"`
	Extracted  StyleProfile `json:"extracted_profile" bson:"extracted_profile"`
	Settings   Guardrails   `json:"settings"   bson:"settings"`
	CreatedAt  time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" bson:"updated_at"`
}

// AnalyzeRequest is the JSON body for POST /api/voice-profile/analyze.
type AnalyzeRequest struct {
	RawSamples string      `json:"raw_samples"`
	Settings   *Guardrails `json:"settings,omitempty"`
}
