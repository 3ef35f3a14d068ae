package domain

import "testing"

func TestRuleTableTagsFor(t *testing.T) {
	rules := DefaultRuleTable()

	tests := []struct {
		name  string
		url   string
		title string
		want  []string
	}{
		{
			name: "github maps to development",
			url:  "https://github.com/golang/go",
			want: []string{"development"},
		},
		{
			name: "docs subdomain maps to documentation",
			url:  "https://docs.example.com/guide",
			want: []string{"documentation"},
		},
		{
			name:  "title keywords add api and guide",
			url:   "https://example.com",
			title: "API Guide",
			want:  []string{"api", "guide"},
		},
		{
			name:  "host and title matches union",
			url:   "https://docs.example.com/guide",
			title: "API Guide",
			want:  []string{"documentation", "api", "guide"},
		},
		{
			name: "no match yields empty set",
			url:  "https://unknown.example.org",
			want: nil,
		},
		{
			name: "malformed url yields no host tags",
			url:  "not a url",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.TagsFor(tt.url, tt.title)
			if len(got) != len(tt.want) {
				t.Fatalf("TagsFor(%q, %q) = %v, want %v", tt.url, tt.title, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("TagsFor()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRuleTableDeterministic(t *testing.T) {
	rules := DefaultRuleTable()
	first := rules.TagsFor("https://docs.github.com", "SDK manual")
	for i := 0; i < 10; i++ {
		again := rules.TagsFor("https://docs.github.com", "SDK manual")
		if len(again) != len(first) {
			t.Fatalf("non-deterministic output: %v vs %v", again, first)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("non-deterministic order: %v vs %v", again, first)
			}
		}
	}
}
