package ai

import (
	"encoding/json"
	"strings"
)

// ExtractTagArray pulls the first JSON-array-shaped substring out of
// free-form model output and decodes it as a list of strings. Anything
// that does not contain a parsable array yields an empty list; this never
// fails.
func ExtractTagArray(text string) []string {
	start := strings.Index(text, "[")
	if start < 0 {
		return nil
	}

	rest := text[start:]
	offset := 1
	for {
		end := strings.Index(rest[offset:], "]")
		if end < 0 {
			return nil
		}
		offset += end + 1
		candidate := rest[:offset]

		var tags []string
		if err := json.Unmarshal([]byte(candidate), &tags); err == nil {
			return tags
		}

		// Mixed-type arrays still count; keep the string elements.
		var loose []any
		if err := json.Unmarshal([]byte(candidate), &loose); err == nil {
			out := make([]string, 0, len(loose))
			for _, v := range loose {
				if s, ok := v.(string); ok {
					out = append(out, s)
				}
			}
			return out
		}
	}
}
