package posts

import (
	"fmt"
	"strings"

	"github.com/avelar/ghostwriter-backend/internal/models"
)

// Angles are the five fixed draft categories every generation request spans.
var Angles = [5]string{"Practical", "Story", "Contrarian", "Framework", "Punchy"}

var lengthGuides = map[string]string{
	"short":  "Keep posts under 150 words",
	"medium": "Posts should be 150-250 words",
	"long":   "Posts can be 250-400 words",
}

var emojiGuides = map[string]string{
	"none":   "Do NOT use any emojis",
	"light":  "Use 1-2 emojis sparingly, only if natural",
	"normal": "Use 3-5 emojis to add visual interest",
}

var hashtagGuides = map[string]string{
	"none": "Do NOT include any hashtags",
	"1-3":  "Include 1-3 relevant hashtags at the end",
}

var ctaGuides = map[string]string{
	"none":   "Do NOT include a call-to-action",
	"soft":   "End with a soft engagement question or thought-provoking statement",
	"direct": "End with a direct call-to-action (comment, share, follow)",
}

var riskGuides = map[string]string{
	"conservative": "Keep opinions mainstream and non-controversial",
	"balanced":     "Share thoughtful opinions but stay professional",
	"spicy":        "Be bold, take contrarian stances, challenge conventional wisdom",
}

func guide(m map[string]string, key, fallback string) string {
	if g, ok := m[key]; ok {
		return g
	}
	return m[fallback]
}

// SystemPrompt assembles the ghostwriting instruction from a voice profile
// and guardrail settings. The wording is a replaceable template.
func SystemPrompt(p models.StyleProfile, g models.Guardrails) string {
	return fmt.Sprintf(`You are a LinkedIn ghostwriter. Write posts that match this voice profile:

VOICE PROFILE:
- Tone: %s
- Structure: %s
- Hook style: %s
- CTA style: %s
- Themes: %s
- Do: %s
- Avoid: %s

GUARDRAILS:
- %s
- %s
- %s
- %s
- %s

FORMAT RULES:
- Write like a real LinkedIn post with proper line breaks (use double newlines between paragraphs)
- Never write essay-style long paragraphs
- Each post must be distinct and offer unique value
- Do NOT copy phrases from the voice profile samples - generate original content`,
		orDefault(p.Tone, "professional"),
		orDefault(p.Structure, "short paragraphs with line breaks"),
		orDefault(p.HookStyle, "engaging opener"),
		orDefault(p.CTAStyle, "soft"),
		joinOr(p.Themes, "business"),
		joinOr(p.Dos, "Be authentic"),
		joinOr(p.Donts, "Corporate jargon"),
		guide(lengthGuides, g.PostLength, "medium"),
		guide(emojiGuides, g.Emoji, "light"),
		guide(hashtagGuides, g.Hashtags, "1-3"),
		guide(ctaGuides, g.CTA, "soft"),
		guide(riskGuides, g.RiskFilter, "balanced"),
	)
}

// GenerationPrompt asks for exactly five drafts spanning the fixed angles,
// returned as a JSON array of {content, tag} objects.
func GenerationPrompt(topic, audience string) string {
	audienceContext := "Target audience: LinkedIn professionals"
	if audience != "" {
		audienceContext = "Target audience: " + audience
	}
	return fmt.Sprintf(`Write 5 LinkedIn posts about: %s
%s

Generate 5 distinct posts with different angles:
1. PRACTICAL: Actionable insight or tip
2. STORY: Personal story or lesson learned
3. CONTRARIAN: Challenge a common belief
4. FRAMEWORK: A checklist, framework, or step-by-step
5. PUNCHY: Short, bold observation (under 100 words)

Return ONLY a JSON array with 5 objects, each having:
- "content": the full post text with proper line breaks (use \n\n for paragraph breaks)
- "tag": one of ["Practical", "Story", "Contrarian", "Framework", "Punchy"]

Example format:
[{"content": "Post text here...\n\nSecond paragraph...", "tag": "Practical"}]`, topic, audienceContext)
}

// RegenerateSystemPrompt is the slimmer instruction used when rewriting a
// single existing draft.
func RegenerateSystemPrompt(p models.StyleProfile) string {
	return fmt.Sprintf(`You are a LinkedIn ghostwriter. Write in this voice:
Tone: %s
Structure: %s
Write a single LinkedIn post.`,
		orDefault(p.Tone, "professional"),
		orDefault(p.Structure, "short paragraphs"))
}

// RegeneratePrompt asks for one new post for the given angle and topic.
func RegeneratePrompt(tag, topic string) string {
	return fmt.Sprintf("Write a new %s LinkedIn post about: %s. Use proper line breaks. Return ONLY the post content, nothing else.", tag, topic)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func joinOr(vs []string, fallback string) string {
	if len(vs) == 0 {
		return fallback
	}
	return strings.Join(vs, ", ")
}
