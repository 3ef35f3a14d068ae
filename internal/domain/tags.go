package domain

import "time"

// TagDefinition is one entry in a user's curated tag registry. The registry
// only drives which tags are exposed as navigation filters; it never gates
// the tags an item may carry.
type TagDefinition struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Order   int    `json:"order"`
}

// DefaultTagNames is the canonical list a fresh registry is seeded from,
// every entry disabled.
var DefaultTagNames = []string{
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
	"ai-relay",
}

// DefaultTagDefinitions builds the seed registry.
func DefaultTagDefinitions() []TagDefinition {
	defs := make([]TagDefinition, 0, len(DefaultTagNames))
	for i, name := range DefaultTagNames {
		defs = append(defs, TagDefinition{Name: name, Enabled: false, Order: i})
	}
	return defs
}

// NormalizeTagDefinitions de-duplicates by name (first occurrence wins) and
// re-indexes Order from the supplied sequence. Idempotent.
func NormalizeTagDefinitions(defs []TagDefinition) []TagDefinition {
	seen := make(map[string]struct{}, len(defs))
	out := make([]TagDefinition, 0, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			continue
		}
		if _, dup := seen[def.Name]; dup {
			continue
		}
		seen[def.Name] = struct{}{}
		def.Order = len(out)
		out = append(out, def)
	}
	return out
}

// AILogEntry is one audit record of a classification run. The store keeps
// the most recent 20 per user, newest first.
type AILogEntry struct {
	URL   string    `json:"url"`
	Title string    `json:"title,omitempty"`
	Tags  []string  `json:"tags"`
	At    time.Time `json:"at"`
}
