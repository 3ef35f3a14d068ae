package domain

import (
	"sort"
	"time"
)

// MaxTombstones bounds the size of the deleted-URL map. When the bound is
// exceeded the least recently deleted entries are evicted first.
const MaxTombstones = 5000

// BookmarkItem is one bookmark, keyed by its normalized URL.
type BookmarkItem struct {
	// URL is the normalized URL and the primary key inside the index.
	URL string `json:"url"`

	// Title is optional; a later upsert only overwrites it with a
	// non-empty value.
	Title string `json:"title,omitempty"`

	// ManualTags holds user- and rule-assigned tags. Free text, not
	// constrained to the classification whitelist.
	ManualTags []string `json:"tags,omitempty"`

	// AITags holds classification output, always a subset of the
	// whitelist.
	AITags []string `json:"aiTags,omitempty"`

	// AICheckedAt marks that classification already ran for this item.
	// While set, the item is never sent to a provider again.
	AICheckedAt *time.Time `json:"aiCheckedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Tags returns the displayed tag set: manual tags followed by AI tags,
// deduplicated, first occurrence wins.
func (it *BookmarkItem) Tags() []string {
	return UnionTags(it.ManualTags, it.AITags)
}

// BookmarkIndex is the per-user document and the unit of storage atomicity.
// Every mutation is a full load, mutate, save cycle.
type BookmarkIndex struct {
	Items     map[string]*BookmarkItem `json:"items"`
	Deleted   map[string]time.Time     `json:"deleted,omitempty"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

// NewBookmarkIndex returns an empty index stamped with now.
func NewBookmarkIndex(now time.Time) *BookmarkIndex {
	return &BookmarkIndex{
		Items:     make(map[string]*BookmarkItem),
		Deleted:   make(map[string]time.Time),
		UpdatedAt: now,
	}
}

// Normalize repairs nil maps after JSON decoding.
func (idx *BookmarkIndex) Normalize() {
	if idx.Items == nil {
		idx.Items = make(map[string]*BookmarkItem)
	}
	if idx.Deleted == nil {
		idx.Deleted = make(map[string]time.Time)
	}
}

// IsTombstoned reports whether key was deleted and not yet pruned.
func (idx *BookmarkIndex) IsTombstoned(key string) bool {
	_, ok := idx.Deleted[key]
	return ok
}

// Upsert creates or updates the item for key (an already normalized URL).
// Any tombstone for key is cleared: a live item and a tombstone never
// coexist. tagsFor supplies rule tags for the item's effective title.
func (idx *BookmarkIndex) Upsert(key, title string, extra []string, tagsFor func(url, title string) []string, now time.Time) *BookmarkItem {
	delete(idx.Deleted, key)

	if existing, ok := idx.Items[key]; ok {
		effective := title
		if effective == "" {
			effective = existing.Title
		}
		existing.ManualTags = UnionTags(existing.ManualTags, extra, tagsFor(key, effective))
		if title != "" {
			existing.Title = title
		}
		existing.UpdatedAt = now
		return existing
	}

	item := &BookmarkItem{
		URL:        key,
		Title:      title,
		ManualTags: UnionTags(extra, tagsFor(key, title)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	idx.Items[key] = item
	return item
}

// Tombstone removes the item for key (if present), records the deletion
// and applies the pruning policy.
func (idx *BookmarkIndex) Tombstone(key string, now time.Time) {
	delete(idx.Items, key)
	idx.Deleted[key] = now
	idx.PruneDeleted(MaxTombstones)
}

// PruneDeleted evicts the oldest tombstones once max is exceeded, keeping
// the max most recently deleted entries.
func (idx *BookmarkIndex) PruneDeleted(max int) {
	if len(idx.Deleted) <= max {
		return
	}

	type entry struct {
		url string
		at  time.Time
	}
	entries := make([]entry, 0, len(idx.Deleted))
	for url, at := range idx.Deleted {
		entries = append(entries, entry{url: url, at: at})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].at.After(entries[j].at)
	})

	pruned := make(map[string]time.Time, max)
	for _, e := range entries[:max] {
		pruned[e.url] = e.at
	}
	idx.Deleted = pruned
}

// SortedItems returns all items sorted by UpdatedAt, newest first.
func (idx *BookmarkIndex) SortedItems() []*BookmarkItem {
	items := make([]*BookmarkItem, 0, len(idx.Items))
	for _, it := range idx.Items {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})
	return items
}

// DeletedEntry is one tombstone, exposed for listing.
type DeletedEntry struct {
	URL       string    `json:"url"`
	DeletedAt time.Time `json:"deletedAt"`
}

// SortedDeleted returns all tombstones, newest first.
func (idx *BookmarkIndex) SortedDeleted() []DeletedEntry {
	entries := make([]DeletedEntry, 0, len(idx.Deleted))
	for url, at := range idx.Deleted {
		entries = append(entries, DeletedEntry{URL: url, DeletedAt: at})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].DeletedAt.After(entries[j].DeletedAt)
	})
	return entries
}

// IndexStats summarizes one user's index.
type IndexStats struct {
	Total     int        `json:"total"`
	AITagged  int        `json:"aiTagged"`
	LastAIAt  *time.Time `json:"lastAiAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Stats computes listing statistics for the index.
func (idx *BookmarkIndex) Stats() IndexStats {
	stats := IndexStats{Total: len(idx.Items), UpdatedAt: idx.UpdatedAt}
	for _, it := range idx.Items {
		if it.AICheckedAt == nil {
			continue
		}
		stats.AITagged++
		if stats.LastAIAt == nil || it.AICheckedAt.After(*stats.LastAIAt) {
			t := *it.AICheckedAt
			stats.LastAIAt = &t
		}
	}
	return stats
}

// UnionTags merges tag slices preserving first-seen order, dropping
// duplicates and empty strings.
func UnionTags(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 8)
	for _, list := range lists {
		for _, tag := range list {
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
