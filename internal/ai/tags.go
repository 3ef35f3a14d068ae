package ai

import "strings"

// MaxTags caps the number of AI tags per bookmark.
const MaxTags = 3

// RelayTag is force-added when a bookmark looks like an AI relay or
// gateway service, regardless of what the provider answered.
const RelayTag = "ai-relay"

// Whitelist is the closed set of canonical category tags AI classification
// may assign. Rule tags and manual tags are not constrained by it.
var Whitelist = []string{
	"development",
	"documentation",
	"reading",
	"video",
	"news",
	"search",
	"tools",
	"design",
	"social",
	"shopping",
	"learning",
	"entertainment",
	"cloud",
	"finance",
	"ai",
	RelayTag,
}

var whitelistSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Whitelist))
	for _, tag := range Whitelist {
		set[tag] = struct{}{}
	}
	return set
}()

// synonyms maps common variants a model may answer with onto whitelist
// entries. Keys are lower-cased; the non-latin entries pass through
// ToLower unchanged, so one table serves both lookups.
var synonyms = map[string]string{
	"dev":                     "development",
	"develop":                 "development",
	"developer":               "development",
	"coding":                  "development",
	"code":                    "development",
	"programming":             "development",
	"software":                "development",
	"开发":                      "development",
	"doc":                     "documentation",
	"docs":                    "documentation",
	"document":                "documentation",
	"reference":               "documentation",
	"文档":                      "documentation",
	"article":                 "reading",
	"articles":                "reading",
	"blog":                    "reading",
	"read":                    "reading",
	"阅读":                      "reading",
	"videos":                  "video",
	"streaming":               "video",
	"视频":                      "video",
	"press":                   "news",
	"新闻":                      "news",
	"engine":                  "search",
	"搜索":                      "search",
	"tool":                    "tools",
	"utility":                 "tools",
	"utilities":               "tools",
	"工具":                      "tools",
	"ui":                      "design",
	"ux":                      "design",
	"设计":                      "design",
	"sns":                     "social",
	"community":               "social",
	"forum":                   "social",
	"社区":                      "social",
	"shop":                    "shopping",
	"ecommerce":               "shopping",
	"e-commerce":              "shopping",
	"购物":                      "shopping",
	"study":                   "learning",
	"course":                  "learning",
	"courses":                 "learning",
	"education":               "learning",
	"tutorial":                "learning",
	"学习":                      "learning",
	"fun":                     "entertainment",
	"game":                    "entertainment",
	"games":                   "entertainment",
	"gaming":                  "entertainment",
	"娱乐":                      "entertainment",
	"cdn":                     "cloud",
	"hosting":                 "cloud",
	"serverless":              "cloud",
	"云服务":                     "cloud",
	"money":                   "finance",
	"invest":                  "finance",
	"investing":               "finance",
	"crypto":                  "finance",
	"金融":                      "finance",
	"llm":                     "ai",
	"ml":                      "ai",
	"machine learning":        "ai",
	"artificial intelligence": "ai",
	"chatgpt":                 "ai",
	"gpt":                     "ai",
	"人工智能":                    "ai",
	"relay":                   RelayTag,
	"proxy":                   RelayTag,
	"gateway":                 RelayTag,
	"api relay":               RelayTag,
	"中转":                      RelayTag,
	"ai relay":                RelayTag,
	"ai中转":                    RelayTag,
}

// CanonicalTag resolves one model-returned tag against the whitelist:
// trimmed, looked up case-insensitively in the synonym table, then exactly,
// then as a direct whitelist entry. Empty string means discard.
func CanonicalTag(raw string) string {
	tag := strings.TrimSpace(raw)
	if tag == "" {
		return ""
	}

	lower := strings.ToLower(tag)
	if canon, ok := synonyms[lower]; ok {
		return canon
	}
	if canon, ok := synonyms[tag]; ok {
		return canon
	}
	if _, ok := whitelistSet[lower]; ok {
		return lower
	}
	return ""
}

// CanonicalizeTags resolves and deduplicates a tag list, capped at MaxTags.
func CanonicalizeTags(raw []string) []string {
	out := make([]string, 0, MaxTags)
	seen := make(map[string]struct{}, MaxTags)
	for _, tag := range raw {
		canon := CanonicalTag(tag)
		if canon == "" {
			continue
		}
		if _, dup := seen[canon]; dup {
			continue
		}
		seen[canon] = struct{}{}
		out = append(out, canon)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}

// Relay/AI vocabulary for the deterministic relay heuristic. Short latin
// terms are matched as whole tokens so "ai" does not fire inside words
// like "email"; longer terms match as substrings.
var (
	relayTokens     = []string{"relay", "proxy", "gateway"}
	relaySubstrings = []string{"中转", "转发"}
	aiTokens        = []string{"ai", "llm", "gpt"}
	aiSubstrings    = []string{"openai", "chatgpt", "claude", "gemini", "deepseek", "人工智能"}
)

// LooksLikeAIRelay reports whether the URL or title combines relay
// vocabulary with AI vocabulary.
func LooksLikeAIRelay(url, title string) bool {
	text := strings.ToLower(url + " " + title)
	tokens := tokenize(text)
	return (matchesAny(text, tokens, relayTokens, relaySubstrings)) &&
		(matchesAny(text, tokens, aiTokens, aiSubstrings))
}

func matchesAny(text string, tokens map[string]struct{}, wordTerms, substrTerms []string) bool {
	for _, term := range wordTerms {
		if _, ok := tokens[term]; ok {
			return true
		}
	}
	for _, term := range substrTerms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func tokenize(text string) map[string]struct{} {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		default:
			return true
		}
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
