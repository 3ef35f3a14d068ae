package domain

import (
	"fmt"
	"testing"
	"time"
)

func noRuleTags(url, title string) []string { return nil }

func TestUpsertCreatesItem(t *testing.T) {
	now := time.Now()
	idx := NewBookmarkIndex(now)

	item := idx.Upsert("https://example.com/a", "Example", []string{"manual"}, noRuleTags, now)

	if item.URL != "https://example.com/a" {
		t.Errorf("URL = %q, want %q", item.URL, "https://example.com/a")
	}
	if item.Title != "Example" {
		t.Errorf("Title = %q, want Example", item.Title)
	}
	if len(item.ManualTags) != 1 || item.ManualTags[0] != "manual" {
		t.Errorf("ManualTags = %v, want [manual]", item.ManualTags)
	}
	if !item.CreatedAt.Equal(now) || !item.UpdatedAt.Equal(now) {
		t.Error("CreatedAt/UpdatedAt should be stamped with now")
	}
}

func TestUpsertMergesTagsAndKeepsTitle(t *testing.T) {
	now := time.Now()
	idx := NewBookmarkIndex(now)

	idx.Upsert("https://example.com/a", "First", []string{"one"}, noRuleTags, now)
	later := now.Add(time.Minute)
	item := idx.Upsert("https://example.com/a", "", []string{"two"}, noRuleTags, later)

	if item.Title != "First" {
		t.Errorf("empty title should not overwrite, got %q", item.Title)
	}
	if len(item.ManualTags) != 2 {
		t.Errorf("ManualTags = %v, want merged [one two]", item.ManualTags)
	}
	if !item.UpdatedAt.Equal(later) {
		t.Error("UpdatedAt should be bumped on merge")
	}
	if !item.CreatedAt.Equal(now) {
		t.Error("CreatedAt should survive upserts")
	}
}

func TestUpsertUsesExistingTitleForRules(t *testing.T) {
	now := time.Now()
	idx := NewBookmarkIndex(now)
	rules := DefaultRuleTable()
	tagsFor := rules.TagsFor

	idx.Upsert("https://example.com/a", "API Guide", nil, tagsFor, now)
	// Second upsert without a title still re-evaluates rules against the
	// stored title.
	item := idx.Upsert("https://example.com/a", "", nil, tagsFor, now.Add(time.Second))

	want := map[string]bool{"api": false, "guide": false}
	for _, tag := range item.ManualTags {
		if _, ok := want[tag]; ok {
			want[tag] = true
		}
	}
	for tag, found := range want {
		if !found {
			t.Errorf("expected rule tag %q in %v", tag, item.ManualTags)
		}
	}
}

func TestUpsertClearsTombstone(t *testing.T) {
	now := time.Now()
	idx := NewBookmarkIndex(now)

	idx.Upsert("https://example.com/a", "", nil, noRuleTags, now)
	idx.Tombstone("https://example.com/a", now)
	if !idx.IsTombstoned("https://example.com/a") {
		t.Fatal("expected tombstone after removal")
	}

	idx.Upsert("https://example.com/a", "", nil, noRuleTags, now.Add(time.Second))
	if idx.IsTombstoned("https://example.com/a") {
		t.Error("upsert must clear the tombstone for its key")
	}
	if _, ok := idx.Items["https://example.com/a"]; !ok {
		t.Error("item should be live again after upsert")
	}
}

func TestTombstoneRemovesItem(t *testing.T) {
	now := time.Now()
	idx := NewBookmarkIndex(now)

	idx.Upsert("https://example.com/a", "", nil, noRuleTags, now)
	idx.Tombstone("https://example.com/a", now)

	if _, ok := idx.Items["https://example.com/a"]; ok {
		t.Error("item must not stay live once tombstoned")
	}
	if !idx.IsTombstoned("https://example.com/a") {
		t.Error("deletion must be recorded")
	}
}

func TestPruneDeletedKeepsMostRecent(t *testing.T) {
	now := time.Now()
	idx := NewBookmarkIndex(now)

	const cap = 10
	const extra = 3
	for i := 0; i < cap+extra; i++ {
		url := fmt.Sprintf("https://example.com/%d", i)
		idx.Deleted[url] = now.Add(time.Duration(i) * time.Second)
	}
	idx.PruneDeleted(cap)

	if len(idx.Deleted) != cap {
		t.Fatalf("len(Deleted) = %d, want %d", len(idx.Deleted), cap)
	}
	// The oldest entries (0..extra-1) must be gone.
	for i := 0; i < extra; i++ {
		url := fmt.Sprintf("https://example.com/%d", i)
		if _, ok := idx.Deleted[url]; ok {
			t.Errorf("oldest tombstone %q should have been evicted", url)
		}
	}
	// The most recent entry must survive.
	newest := fmt.Sprintf("https://example.com/%d", cap+extra-1)
	if _, ok := idx.Deleted[newest]; !ok {
		t.Errorf("newest tombstone %q should have been kept", newest)
	}
}

func TestTagsMergedAndDeduplicated(t *testing.T) {
	item := &BookmarkItem{
		ManualTags: []string{"development", "reading"},
		AITags:     []string{"reading", "ai"},
	}
	got := item.Tags()
	want := []string{"development", "reading", "ai"}
	if len(got) != len(want) {
		t.Fatalf("Tags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tags()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStats(t *testing.T) {
	now := time.Now()
	idx := NewBookmarkIndex(now)

	idx.Upsert("https://a.example.com", "", nil, noRuleTags, now)
	item := idx.Upsert("https://b.example.com", "", nil, noRuleTags, now)
	checked := now.Add(time.Minute)
	item.AICheckedAt = &checked

	stats := idx.Stats()
	if stats.Total != 2 {
		t.Errorf("Total = %d, want 2", stats.Total)
	}
	if stats.AITagged != 1 {
		t.Errorf("AITagged = %d, want 1", stats.AITagged)
	}
	if stats.LastAIAt == nil || !stats.LastAIAt.Equal(checked) {
		t.Errorf("LastAIAt = %v, want %v", stats.LastAIAt, checked)
	}
}

func TestNormalizeTagDefinitions(t *testing.T) {
	defs := []TagDefinition{
		{Name: "development", Enabled: true, Order: 9},
		{Name: "reading", Enabled: false, Order: 5},
		{Name: "development", Enabled: false, Order: 1}, // duplicate, dropped
		{Name: "", Enabled: true},                       // empty, dropped
	}

	got := NormalizeTagDefinitions(defs)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "development" || !got[0].Enabled || got[0].Order != 0 {
		t.Errorf("first = %+v, want enabled development at order 0", got[0])
	}
	if got[1].Name != "reading" || got[1].Order != 1 {
		t.Errorf("second = %+v, want reading at order 1", got[1])
	}
}
