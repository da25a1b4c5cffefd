package posts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avelar/ghostwriter-backend/internal/llm"
)

// DraftSeed is one decoded {content, tag} pair from the model reply.
type DraftSeed struct {
	Content string `json:"content"`
	Tag     string `json:"tag"`
}

// DraftsResult is the tagged outcome of decoding a generation reply: either
// the decoded drafts or the deterministic fallback with the reason it was
// used. Either way it holds at most five usable drafts.
type DraftsResult struct {
	Drafts   []DraftSeed
	Fallback bool
	Reason   string
}

// DecodeDrafts attempts a strict decode of the draft list from the raw reply
// and substitutes topic-derived fallback drafts on any failure, so
// generation never fails visibly because the model returned malformed text.
func DecodeDrafts(raw, topic string) DraftsResult {
	blob := llm.ExtractJSONArray(raw)
	if blob == "" {
		return DraftsResult{Drafts: FallbackDrafts(topic), Fallback: true, Reason: "no JSON array in reply"}
	}
	var seeds []DraftSeed
	if err := json.Unmarshal([]byte(blob), &seeds); err != nil {
		return DraftsResult{Drafts: FallbackDrafts(topic), Fallback: true, Reason: "decode: " + err.Error()}
	}
	if len(seeds) == 0 {
		return DraftsResult{Drafts: FallbackDrafts(topic), Fallback: true, Reason: "empty draft list"}
	}
	if len(seeds) > len(Angles) {
		seeds = seeds[:len(Angles)]
	}
	for i := range seeds {
		if !validTag(seeds[i].Tag) {
			seeds[i].Tag = Angles[0]
		}
	}
	return DraftsResult{Drafts: seeds}
}

func validTag(tag string) bool {
	for _, a := range Angles {
		if tag == a {
			return true
		}
	}
	return false
}

// FallbackDrafts builds one deterministic draft per angle from the topic
// string alone.
func FallbackDrafts(topic string) []DraftSeed {
	return []DraftSeed{
		{Tag: "Practical", Content: fmt.Sprintf("Here's what I've learned about %s:\n\nThe key is consistency over perfection.\n\nEvery expert was once a beginner.", topic)},
		{Tag: "Story", Content: fmt.Sprintf("A story about %s:\n\nLast year, I failed spectacularly. But that failure taught me everything I know today.", topic)},
		{Tag: "Contrarian", Content: fmt.Sprintf("Unpopular opinion about %s:\n\nMost advice you'll hear is wrong.\n\nHere's the truth nobody talks about.", topic)},
		{Tag: "Framework", Content: fmt.Sprintf("My 3-step framework for %s:\n\n1. Start small\n2. Stay consistent\n3. Iterate fast\n\nSimple but effective.", topic)},
		{Tag: "Punchy", Content: fmt.Sprintf("%s isn't complicated.\n\nWe make it complicated.\n\nStop overthinking. Start doing.", titleCase(topic))},
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
