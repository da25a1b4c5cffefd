package demo

import "github.com/avelar/ghostwriter-backend/internal/models"

// samplePosts is the canned writing sample shown to unauthenticated visitors.
const samplePosts = `Here's what I learned after 10 years of leading teams:

The best leaders don't have all the answers.

They have the best questions.

Ask more. Tell less. Watch your team transform.

---

I was wrong about remote work.

Two years ago, I thought it would kill culture. Instead, it forced us to be intentional about connection.

The office wasn't culture. It was proximity we mistook for culture.

Real culture is built through:
• Clear values
• Consistent actions
• Genuine care

Location is irrelevant.

---

Stop saying "I don't have time."

Start saying "It's not a priority."

Watch how quickly your calendar reflects your values.

Time management is really priority management.

What's one thing you've been "too busy" for that actually matters?

---

The most underrated skill in business?

Writing clearly.

Not clever. Not fancy. Clear.

Every email, every doc, every message is a chance to earn trust or lose it.

Simple words. Short sentences. One idea at a time.

That's it. That's the whole framework.

---

Controversial take: Your morning routine doesn't matter.

What matters is showing up consistently for the work that matters.

5am or 10am—who cares?

Results > rituals.`

// sampleStyle is the pre-extracted profile matching samplePosts.
func sampleStyle() models.StyleProfile {
	return models.StyleProfile{
		Tone:      "Direct, confident, conversational",
		Structure: "Short paragraphs, generous line breaks, often one-liners",
		HookStyle: "Bold statement or contrarian opener",
		CTAStyle:  "Soft engagement question",
		Themes:    []string{"Leadership", "Remote work", "Productivity", "Communication"},
		Dos:       []string{"Use line breaks liberally", "Challenge conventional wisdom", "End with questions", "Keep paragraphs to 1-3 sentences"},
		Donts:     []string{"No corporate jargon", "Avoid long paragraphs", "No excessive hashtags", "Don't hedge opinions"},
		Summary:   "Direct, no-BS voice that challenges conventional thinking while remaining approachable",
	}
}
