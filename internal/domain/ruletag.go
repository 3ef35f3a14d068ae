package domain

import (
	"net/url"
	"strings"
)

// HostRule maps a hostname substring to a canonical tag.
type HostRule struct {
	Match string `yaml:"match"`
	Tag   string `yaml:"tag"`
}

// TitleRule maps a lower-cased title keyword to a canonical tag.
type TitleRule struct {
	Keyword string `yaml:"keyword"`
	Tag     string `yaml:"tag"`
}

// RuleTable holds the deterministic tagging heuristics. Rule tags end up in
// an item's manual tags and are not constrained to the AI whitelist.
type RuleTable struct {
	Hosts  []HostRule  `yaml:"hosts"`
	Titles []TitleRule `yaml:"titles"`
}

// DefaultRuleTable returns the built-in heuristics, used when no rule file
// is configured.
func DefaultRuleTable() *RuleTable {
	return &RuleTable{
		Hosts: []HostRule{
			{Match: "github.com", Tag: "development"},
			{Match: "gitlab.com", Tag: "development"},
			{Match: "npmjs.com", Tag: "packages"},
			{Match: "deno.land", Tag: "packages"},
			{Match: "stackoverflow.com", Tag: "qa"},
			{Match: "stack", Tag: "qa"},
			{Match: "youtube.com", Tag: "video"},
			{Match: "bilibili.com", Tag: "video"},
			{Match: "docs", Tag: "documentation"},
			{Match: "developer", Tag: "documentation"},
			{Match: "medium.com", Tag: "reading"},
			{Match: "google.com", Tag: "search"},
			{Match: "cloudflare.com", Tag: "cloud"},
			{Match: "openai.com", Tag: "ai"},
			{Match: "apple.com", Tag: "apple"},
		},
		Titles: []TitleRule{
			{Keyword: "api", Tag: "api"},
			{Keyword: "sdk", Tag: "api"},
			{Keyword: "guide", Tag: "guide"},
			{Keyword: "manual", Tag: "guide"},
			{Keyword: "tutorial", Tag: "guide"},
		},
	}
}

// TagsFor returns the heuristic tags for a bookmark. Pure and
// deterministic: hostname substring matches plus lower-cased title keyword
// matches, deduplicated, empty when nothing applies.
func (t *RuleTable) TagsFor(rawURL, title string) []string {
	host := hostnameOf(rawURL)

	tags := make([]string, 0, 4)
	seen := make(map[string]struct{})
	add := func(tag string) {
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	if host != "" {
		for _, rule := range t.Hosts {
			if strings.Contains(host, rule.Match) {
				add(rule.Tag)
			}
		}
	}

	if title != "" {
		lower := strings.ToLower(title)
		for _, rule := range t.Titles {
			if strings.Contains(lower, rule.Keyword) {
				add(rule.Tag)
			}
		}
	}

	return tags
}

// hostnameOf extracts the lower-cased hostname, empty string on failure.
func hostnameOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
