package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/bkmarks/bkmarkd/internal/ai"
	"github.com/bkmarks/bkmarkd/internal/domain"
	"github.com/bkmarks/bkmarkd/internal/logger"
	"github.com/bkmarks/bkmarkd/internal/sources/rules"
)

// IndexStore is the slice of the storage layer the processor needs.
type IndexStore interface {
	LoadIndex(ctx context.Context, userID string) (*domain.BookmarkIndex, error)
	SaveIndex(ctx context.Context, userID string, idx *domain.BookmarkIndex) error
}

// Classifier triggers AI tagging for an upserted bookmark. Classification
// is best effort: its failure never blocks or reverts the upsert.
type Classifier interface {
	Classify(ctx context.Context, userID, url, title string) (ai.Result, error)
}

// Report summarizes what an event did to the index.
type Report struct {
	Received int `json:"received"`
	Applied  int `json:"applied"`
	Skipped  int `json:"skipped"`
}

// Processor applies sync events to per-user bookmark indexes. Each call is
// a single load, mutate, save cycle; there is no cross-call ordering
// guarantee.
type Processor struct {
	store      IndexStore
	rules      *rules.Source
	classifier Classifier
	logger     logger.Logger
	now        func() time.Time
}

// NewProcessor creates a processor. classifier may be nil when AI tagging
// is not wired in.
func NewProcessor(store IndexStore, ruleSrc *rules.Source, classifier Classifier, log logger.Logger) *Processor {
	return &Processor{
		store:      store,
		rules:      ruleSrc,
		classifier: classifier,
		logger:     log,
		now:        time.Now,
	}
}

// Apply executes one event for a user. Per-item validation failures
// (missing URL) are silently skipped; only an undecodable envelope is a
// caller error, and that is rejected before Apply runs.
func (p *Processor) Apply(ctx context.Context, userID string, ev Event) (*Report, error) {
	if ev.Source == SourceSelfWriteback {
		p.logger.Debug("dropping self-writeback event",
			logger.String("user", userID),
			logger.String("type", string(ev.Type)))
		return &Report{}, nil
	}

	switch ev.Type {
	case EventCreated:
		if ev.Bookmark == nil || ev.Bookmark.URL == "" {
			return &Report{Received: 1}, nil
		}
		return p.applyUpsert(ctx, userID, ev.Bookmark.URL, ev.Bookmark.Title)

	case EventChanged:
		if ev.Change == nil || ev.Change.URL == "" {
			return &Report{Received: 1}, nil
		}
		return p.applyUpsert(ctx, userID, ev.Change.URL, ev.Change.Title)

	case EventRemoved:
		if ev.URL == "" {
			return &Report{Received: 1}, nil
		}
		return p.applyRemove(ctx, userID, ev.URL)

	case EventMoved:
		// Bookmark positions are not modeled.
		return &Report{Received: 1}, nil

	case EventFull:
		return p.applyFull(ctx, userID, ev.Items)

	default:
		return nil, fmt.Errorf("%w: unhandled type %q", ErrBadEvent, ev.Type)
	}
}

func (p *Processor) applyUpsert(ctx context.Context, userID, url, title string) (*Report, error) {
	idx, err := p.store.LoadIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := domain.NormalizeURL(url)
	item := idx.Upsert(key, title, nil, p.rules.Current().TagsFor, p.now())
	if err := p.store.SaveIndex(ctx, userID, idx); err != nil {
		return nil, err
	}

	p.classifyBestEffort(ctx, userID, item.URL, item.Title)
	return &Report{Received: 1, Applied: 1}, nil
}

func (p *Processor) applyRemove(ctx context.Context, userID, url string) (*Report, error) {
	idx, err := p.store.LoadIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx.Tombstone(domain.NormalizeURL(url), p.now())
	if err := p.store.SaveIndex(ctx, userID, idx); err != nil {
		return nil, err
	}
	return &Report{Received: 1, Applied: 1}, nil
}

// applyFull bulk-upserts a client's complete bookmark list. URLs in the
// tombstone set are skipped: a stale client tree must not resurrect
// server-side deletions.
func (p *Processor) applyFull(ctx context.Context, userID string, items []BookmarkRef) (*Report, error) {
	idx, err := p.store.LoadIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &Report{Received: len(items)}
	applied := make([]*domain.BookmarkItem, 0, len(items))
	tagsFor := p.rules.Current().TagsFor
	now := p.now()

	for _, ref := range items {
		if ref.URL == "" {
			continue
		}
		key := domain.NormalizeURL(ref.URL)
		if idx.IsTombstoned(key) {
			report.Skipped++
			continue
		}
		applied = append(applied, idx.Upsert(key, ref.Title, nil, tagsFor, now))
		report.Applied++
	}

	if err := p.store.SaveIndex(ctx, userID, idx); err != nil {
		return nil, err
	}

	for _, item := range applied {
		p.classifyBestEffort(ctx, userID, item.URL, item.Title)
	}
	return report, nil
}

func (p *Processor) classifyBestEffort(ctx context.Context, userID, url, title string) {
	if p.classifier == nil {
		return
	}
	if _, err := p.classifier.Classify(ctx, userID, url, title); err != nil {
		p.logger.Warn("classification failed",
			logger.String("user", userID),
			logger.String("url", url),
			logger.Error(err))
	}
}
