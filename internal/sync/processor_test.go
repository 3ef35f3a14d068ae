package sync

import (
	"context"
	"testing"
	"time"

	"github.com/bkmarks/bkmarkd/internal/ai"
	"github.com/bkmarks/bkmarkd/internal/domain"
	"github.com/bkmarks/bkmarkd/internal/logger"
	"github.com/bkmarks/bkmarkd/internal/sources/rules"
)

type memStore struct {
	indexes map[string]*domain.BookmarkIndex
	saves   int
}

func newMemStore() *memStore {
	return &memStore{indexes: make(map[string]*domain.BookmarkIndex)}
}

func (m *memStore) LoadIndex(_ context.Context, userID string) (*domain.BookmarkIndex, error) {
	if idx, ok := m.indexes[userID]; ok {
		return idx, nil
	}
	return domain.NewBookmarkIndex(time.Now()), nil
}

func (m *memStore) SaveIndex(_ context.Context, userID string, idx *domain.BookmarkIndex) error {
	m.indexes[userID] = idx
	m.saves++
	return nil
}

type recordingClassifier struct {
	urls []string
}

func (r *recordingClassifier) Classify(_ context.Context, _, url, _ string) (ai.Result, error) {
	r.urls = append(r.urls, url)
	return ai.Result{}, nil
}

func newTestProcessor(store IndexStore, classifier Classifier) *Processor {
	return NewProcessor(store, rules.NewSource(nil), classifier, logger.New("error", false))
}

func TestProcessor_Apply_Created(t *testing.T) {
	store := newMemStore()
	classifier := &recordingClassifier{}
	p := newTestProcessor(store, classifier)
	ctx := context.Background()

	report, err := p.Apply(ctx, "u1", Event{
		Type:     EventCreated,
		Bookmark: &BookmarkRef{URL: "https://GitHub.com/golang/go?utm_source=tw", Title: "Go"},
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if report.Applied != 1 {
		t.Errorf("Applied = %d, want 1", report.Applied)
	}

	idx := store.indexes["u1"]
	item, ok := idx.Items["https://github.com/golang/go"]
	if !ok {
		t.Fatalf("normalized key missing; items: %v", idx.Items)
	}
	if item.Title != "Go" {
		t.Errorf("Title = %q", item.Title)
	}
	if len(classifier.urls) != 1 {
		t.Errorf("classifier calls = %d, want 1", len(classifier.urls))
	}
}

func TestProcessor_Apply_MissingURLSilentlySkipped(t *testing.T) {
	store := newMemStore()
	p := newTestProcessor(store, nil)

	report, err := p.Apply(context.Background(), "u1", Event{Type: EventCreated, Bookmark: &BookmarkRef{}})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if report.Applied != 0 || report.Received != 1 {
		t.Errorf("report = %+v", report)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
}

func TestProcessor_Apply_SelfWritebackDropped(t *testing.T) {
	store := newMemStore()
	p := newTestProcessor(store, nil)

	report, err := p.Apply(context.Background(), "u1", Event{
		Type:     EventCreated,
		Source:   SourceSelfWriteback,
		Bookmark: &BookmarkRef{URL: "https://example.com"},
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if report.Received != 0 || report.Applied != 0 {
		t.Errorf("report = %+v", report)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
}

func TestProcessor_Apply_RemovedTombstones(t *testing.T) {
	store := newMemStore()
	p := newTestProcessor(store, nil)
	ctx := context.Background()

	if _, err := p.Apply(ctx, "u1", Event{Type: EventCreated, Bookmark: &BookmarkRef{URL: "https://example.com/a"}}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := p.Apply(ctx, "u1", Event{Type: EventRemoved, URL: "https://example.com/a"}); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	idx := store.indexes["u1"]
	if _, ok := idx.Items["https://example.com/a"]; ok {
		t.Error("item still present after remove")
	}
	if !idx.IsTombstoned("https://example.com/a") {
		t.Error("tombstone missing")
	}
}

func TestProcessor_Apply_FullSkipsTombstoned(t *testing.T) {
	store := newMemStore()
	classifier := &recordingClassifier{}
	p := newTestProcessor(store, classifier)
	ctx := context.Background()

	if _, err := p.Apply(ctx, "u1", Event{Type: EventCreated, Bookmark: &BookmarkRef{URL: "https://example.com/deleted"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Apply(ctx, "u1", Event{Type: EventRemoved, URL: "https://example.com/deleted"}); err != nil {
		t.Fatal(err)
	}
	classifier.urls = nil
	savesBefore := store.saves

	report, err := p.Apply(ctx, "u1", Event{Type: EventFull, Items: []BookmarkRef{
		{URL: "https://example.com/deleted", Title: "stale"},
		{URL: "https://example.com/kept", Title: "kept"},
		{URL: "", Title: "no url"},
	}})
	if err != nil {
		t.Fatalf("full sync failed: %v", err)
	}
	if report.Received != 3 || report.Applied != 1 || report.Skipped != 1 {
		t.Errorf("report = %+v", report)
	}

	idx := store.indexes["u1"]
	if _, ok := idx.Items["https://example.com/deleted"]; ok {
		t.Error("full sync resurrected a tombstoned bookmark")
	}
	if _, ok := idx.Items["https://example.com/kept"]; !ok {
		t.Error("full sync dropped a live bookmark")
	}
	if store.saves != savesBefore+1 {
		t.Errorf("full sync saved %d times, want 1", store.saves-savesBefore)
	}
	if len(classifier.urls) != 1 || classifier.urls[0] != "https://example.com/kept" {
		t.Errorf("classifier urls = %v", classifier.urls)
	}
}

func TestProcessor_Apply_MovedIsNoop(t *testing.T) {
	store := newMemStore()
	p := newTestProcessor(store, nil)

	report, err := p.Apply(context.Background(), "u1", Event{Type: EventMoved})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if report.Applied != 0 {
		t.Errorf("Applied = %d, want 0", report.Applied)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
}
