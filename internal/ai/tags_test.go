package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalTag(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"development", "development"},
		{"Development", "development"},
		{"  news  ", "news"},
		{"dev", "development"},
		{"docs", "documentation"},
		{"开发", "development"},
		{"文档", "documentation"},
		{"中转", "ai-relay"},
		{"relay", "ai-relay"},
		{"llm", "ai"},
		{"cooking", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanonicalTag(tc.in), "input %q", tc.in)
	}
}

func TestCanonicalizeTags(t *testing.T) {
	t.Run("drops unknown and dedupes", func(t *testing.T) {
		got := CanonicalizeTags([]string{"dev", "development", "cooking", "news"})
		assert.Equal(t, []string{"development", "news"}, got)
	})

	t.Run("caps at max", func(t *testing.T) {
		got := CanonicalizeTags([]string{"development", "news", "video", "tools"})
		assert.Len(t, got, MaxTags)
		assert.Equal(t, []string{"development", "news", "video"}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, CanonicalizeTags(nil))
		assert.Empty(t, CanonicalizeTags([]string{"cooking", ""}))
	})
}

func TestLooksLikeAIRelay(t *testing.T) {
	cases := []struct {
		url   string
		title string
		want  bool
	}{
		{"https://api.example.com", "GPT relay service", true},
		{"https://example.com/gateway", "cheap llm access", true},
		{"https://example.com", "OpenAI 中转站", true},
		{"https://proxy.example.com", "ai proxy", true},
		{"https://example.com", "daily news digest", false},
		{"https://therapist.example.com", "therapy sessions", false}, // "ai" not a whole token
		{"https://example.com", "", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LooksLikeAIRelay(tc.url, tc.title), "%s %q", tc.url, tc.title)
	}
}

func TestUnionWithRelay(t *testing.T) {
	assert.Equal(t, []string{RelayTag}, UnionWithRelay(nil))
	assert.Equal(t, []string{"ai", RelayTag}, UnionWithRelay([]string{"ai"}))
	assert.Equal(t, []string{"ai", RelayTag, "news"}, UnionWithRelay([]string{"ai", RelayTag, "news"}))

	full := UnionWithRelay([]string{"development", "news", "video"})
	assert.Len(t, full, MaxTags)
	assert.Contains(t, full, RelayTag)
}

func TestExtractTagArray(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"bare array", `["development","news"]`, []string{"development", "news"}},
		{"prose around array", `Sure! Here you go: ["ai"] hope that helps`, []string{"ai"}},
		{"code fence", "```json\n[\"video\", \"news\"]\n```", []string{"video", "news"}},
		{"mixed element types", `[1, "news", null]`, []string{"news"}},
		{"no array", "no tags here", nil},
		{"unterminated", `["news"`, nil},
		{"empty array", `[]`, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractTagArray(tc.in))
		})
	}
}
