package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"bare", `{"a": 1}`, `{"a": 1}`},
		{"code fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose around", `Sure! Here it is: {"a": 1} hope that helps`, `{"a": 1}`},
		{"nested braces", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
		{"no object", "plain text", ""},
		{"unclosed", `{"a": 1`, ""},
		{"close before open", `} nothing {`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractJSONObject(tc.raw))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"bare", `[1, 2]`, `[1, 2]`},
		{"fenced", "```\n[{\"x\": 1}]\n```", `[{"x": 1}]`},
		{"no array", "nope", ""},
		{"empty array", "[]", "[]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractJSONArray(tc.raw))
		})
	}
}
