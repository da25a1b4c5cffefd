package llm

import "strings"

// Models are asked for bare JSON but routinely wrap it in prose or code
// fences. These helpers cut the outermost JSON-looking substring out of a
// free-text reply; decoding (and deciding what to do when it fails) is the
// caller's job.

// ExtractJSONObject returns the substring from the first '{' to the last
// '}', or "" when no object-like span exists.
func ExtractJSONObject(raw string) string {
	return extractSpan(raw, '{', '}')
}

// ExtractJSONArray returns the substring from the first '[' to the last
// ']', or "" when no list-like span exists.
func ExtractJSONArray(raw string) string {
	return extractSpan(raw, '[', ']')
}

func extractSpan(raw string, open, closer byte) string {
	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, closer)
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
