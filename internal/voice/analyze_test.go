package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProfile(t *testing.T) {
	raw := "Here is the analysis you asked for:\n```json\n" +
		`{"tone":"direct","structure":"one-liners","hook_style":"question",
		  "cta_style":"none","themes":["sales"],"dos":["be brief"],
		  "donts":["no jargon"],"summary":"terse and bold"}` +
		"\n```"

	result := DecodeProfile(raw)
	require.False(t, result.Fallback)
	assert.Equal(t, "direct", result.Profile.Tone)
	assert.Equal(t, []string{"sales"}, result.Profile.Themes)
	assert.Equal(t, "terse and bold", result.Profile.Summary)
}

func TestDecodeProfileFallback(t *testing.T) {
	for name, raw := range map[string]string{
		"no object":   "I analyzed the posts and found them quite direct.",
		"broken json": `{"tone": direct}`,
		"empty":       "",
	} {
		t.Run(name, func(t *testing.T) {
			result := DecodeProfile(raw)
			assert.True(t, result.Fallback)
			assert.NotEmpty(t, result.Reason)
			assert.Equal(t, FallbackProfile(), result.Profile)
		})
	}
}

func TestFallbackProfileIsComplete(t *testing.T) {
	p := FallbackProfile()
	assert.NotEmpty(t, p.Tone)
	assert.NotEmpty(t, p.Structure)
	assert.NotEmpty(t, p.HookStyle)
	assert.NotEmpty(t, p.CTAStyle)
	assert.NotEmpty(t, p.Themes)
	assert.NotEmpty(t, p.Dos)
	assert.NotEmpty(t, p.Donts)
	assert.NotEmpty(t, p.Summary)
}

func TestAnalysisPromptEmbedsSamples(t *testing.T) {
	prompt := AnalysisPrompt("my sample posts here")
	assert.Contains(t, prompt, "my sample posts here")
	assert.Contains(t, prompt, "ONLY a valid JSON object")
}
