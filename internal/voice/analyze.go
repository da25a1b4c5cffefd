package voice

import (
	"encoding/json"
	"fmt"

	"github.com/avelar/ghostwriter-backend/internal/llm"
	"github.com/avelar/ghostwriter-backend/internal/models"
)

// MinSampleChars is the least amount of sample text worth analyzing.
const MinSampleChars = 100

// AnalystSystemPrompt instructs the model to act as a writing-style analyst.
// Treated as a replaceable template; nothing downstream depends on its wording.
const AnalystSystemPrompt = `You are a LinkedIn writing style analyst. Analyze the provided sample posts and extract:
1. Tone (professional, casual, inspirational, provocative, etc.)
2. Structure patterns (how they open, format paragraphs, use line breaks)
3. Hook style (question, statement, statistic, story opener)
4. CTA style (none, soft ask, direct ask)
5. Common themes and topics
6. Do's (things they consistently do)
7. Don'ts (things they avoid)

Return a JSON object with these fields: tone, structure, hook_style, cta_style, themes, dos, donts, summary.
themes, dos and donts must be JSON arrays of strings.`

// AnalysisPrompt builds the user message for a style analysis request.
func AnalysisPrompt(rawSamples string) string {
	return fmt.Sprintf(`Analyze these LinkedIn posts and extract the author's writing style:

%s

Return ONLY a valid JSON object with the analysis.`, rawSamples)
}

// ProfileResult is the tagged outcome of decoding a model reply: either the
// decoded profile or the deterministic fallback with the reason it was used.
type ProfileResult struct {
	Profile  models.StyleProfile
	Fallback bool
	Reason   string
}

// DecodeProfile attempts a strict decode of the style profile from the raw
// reply and substitutes the fallback profile on any failure.
func DecodeProfile(raw string) ProfileResult {
	blob := llm.ExtractJSONObject(raw)
	if blob == "" {
		return ProfileResult{Profile: FallbackProfile(), Fallback: true, Reason: "no JSON object in reply"}
	}
	var p models.StyleProfile
	if err := json.Unmarshal([]byte(blob), &p); err != nil {
		return ProfileResult{Profile: FallbackProfile(), Fallback: true, Reason: "decode: " + err.Error()}
	}
	return ProfileResult{Profile: p}
}

// FallbackProfile is the deterministic profile used when the collaborator
// fails or returns something undecodable.
func FallbackProfile() models.StyleProfile {
	return models.StyleProfile{
		Tone:      "professional yet approachable",
		Structure: "short paragraphs, generous line breaks",
		HookStyle: "provocative question or bold statement",
		CTAStyle:  "soft engagement ask",
		Themes:    []string{"leadership", "personal growth", "industry insights"},
		Dos:       []string{"Use line breaks for readability", "Start with a hook", "End with engagement"},
		Donts:     []string{"Avoid long paragraphs", "No excessive hashtags"},
		Summary:   "Voice profile extracted from samples",
	}
}
