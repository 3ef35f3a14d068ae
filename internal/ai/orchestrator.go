package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bkmarks/bkmarkd/internal/domain"
	"github.com/bkmarks/bkmarkd/internal/logger"
	"github.com/bkmarks/bkmarkd/internal/sources/rules"
)

// DefaultMaxTokens bounds a classification completion. Tag arrays are
// short; anything larger is the model rambling.
const DefaultMaxTokens = 120

// Skip reasons surfaced in classification results.
const (
	ReasonAlreadyChecked = "already_checked"
	ReasonLimit          = "limit"
	ReasonUnavailable    = "ai_unavailable"
)

// Result is the outcome of one classification request.
type Result struct {
	Tags    []string `json:"tags"`
	Skipped bool     `json:"skipped,omitempty"`
	Reason  string   `json:"reason,omitempty"`
}

// IndexStore loads and saves per-user bookmark indexes.
type IndexStore interface {
	LoadIndex(ctx context.Context, userID string) (*domain.BookmarkIndex, error)
	SaveIndex(ctx context.Context, userID string, idx *domain.BookmarkIndex) error
}

// UsageStore tracks daily classification counters.
type UsageStore interface {
	Usage(ctx context.Context, userID, date string) (global, user int64, err error)
	IncrUsage(ctx context.Context, userID, date string) error
}

// AuditStore records recent classification outcomes per user.
type AuditStore interface {
	AppendAILog(ctx context.Context, userID string, entry domain.AILogEntry) error
}

// Store is the slice of the storage layer the orchestrator needs.
type Store interface {
	IndexStore
	UsageStore
	AuditStore
}

// Limits caps daily classification volume. Zero means unlimited.
type Limits struct {
	Global  int64
	PerUser int64
}

// ProviderSource yields the provider the current configuration selects.
// *Resolver satisfies it.
type ProviderSource interface {
	Provider(ctx context.Context) (Provider, Resolved, error)
}

// Orchestrator runs the classification pipeline: upsert, dedupe, quota
// gate, provider call, tag canonicalization, persistence, audit.
type Orchestrator struct {
	store     Store
	providers ProviderSource
	rules     *rules.Source
	logger    logger.Logger
	limits    Limits
	maxTokens int
	now       func() time.Time
}

// NewOrchestrator creates an orchestrator. maxTokens <= 0 falls back to
// DefaultMaxTokens.
func NewOrchestrator(store Store, providers ProviderSource, ruleSrc *rules.Source, limits Limits, maxTokens int, log logger.Logger) *Orchestrator {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Orchestrator{
		store:     store,
		providers: providers,
		rules:     ruleSrc,
		logger:    log,
		limits:    limits,
		maxTokens: maxTokens,
		now:       time.Now,
	}
}

// Classify tags one bookmark. The bookmark is upserted first so the index
// reflects the request even when classification is skipped or fails. A
// bookmark already carrying a checked timestamp is never re-sent to the
// provider; quota and provider availability gate the call itself. Usage
// counters move only when a provider call was actually attempted.
func (o *Orchestrator) Classify(ctx context.Context, userID, rawURL, title string) (Result, error) {
	if strings.TrimSpace(rawURL) == "" {
		return Result{}, fmt.Errorf("classify: empty url")
	}

	now := o.now()
	key := domain.NormalizeURL(rawURL)

	idx, err := o.store.LoadIndex(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	item := idx.Upsert(key, title, nil, o.rules.Current().TagsFor, now)
	if err := o.store.SaveIndex(ctx, userID, idx); err != nil {
		return Result{}, err
	}

	if item.AICheckedAt != nil {
		return Result{Tags: item.Tags(), Skipped: true, Reason: ReasonAlreadyChecked}, nil
	}

	date := now.UTC().Format("2006-01-02")
	global, user, err := o.store.Usage(ctx, userID, date)
	if err != nil {
		return Result{}, err
	}
	if (o.limits.Global > 0 && global >= o.limits.Global) ||
		(o.limits.PerUser > 0 && user >= o.limits.PerUser) {
		return Result{Tags: item.Tags(), Skipped: true, Reason: ReasonLimit}, nil
	}

	provider, resolved, err := o.providers.Provider(ctx)
	if err != nil {
		return Result{}, err
	}
	if resolved.Kind == ProviderNone || !resolved.HasSecret {
		return Result{Tags: item.Tags(), Skipped: true, Reason: ReasonUnavailable}, nil
	}

	raw, callErr := provider.Complete(ctx, classifyMessages(key, item.Title), o.maxTokens)

	// The call was attempted, so it counts against the daily budget even
	// when it failed.
	if err := o.store.IncrUsage(ctx, userID, date); err != nil {
		o.logger.Warn("usage increment failed",
			logger.String("user", userID),
			logger.Error(err))
	}
	if callErr != nil {
		return Result{}, fmt.Errorf("classify %s: %w", key, callErr)
	}

	tags := CanonicalizeTags(ExtractTagArray(raw))
	if LooksLikeAIRelay(key, item.Title) {
		tags = UnionWithRelay(tags)
	}

	// Reload before persisting: the provider call may have taken long
	// enough for the index to move underneath us.
	idx, err = o.store.LoadIndex(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	current, ok := idx.Items[key]
	if !ok || idx.IsTombstoned(key) {
		// Deleted while classifying; do not resurrect.
		return Result{Tags: tags}, nil
	}
	checked := now
	current.AITags = tags
	current.AICheckedAt = &checked
	current.UpdatedAt = now
	if err := o.store.SaveIndex(ctx, userID, idx); err != nil {
		return Result{}, err
	}

	if err := o.store.AppendAILog(ctx, userID, domain.AILogEntry{
		URL:   key,
		Title: current.Title,
		Tags:  tags,
		At:    now,
	}); err != nil {
		o.logger.Warn("ai log append failed",
			logger.String("user", userID),
			logger.Error(err))
	}

	return Result{Tags: current.Tags()}, nil
}

// UnionWithRelay guarantees the relay tag is present without growing the
// result past the tag cap: when full, the last slot is given up for it.
func UnionWithRelay(tags []string) []string {
	for _, t := range tags {
		if t == RelayTag {
			return tags
		}
	}
	if len(tags) >= MaxTags {
		tags = tags[:MaxTags-1]
	}
	return append(tags, RelayTag)
}

func classifyMessages(url, title string) []ChatMessage {
	return []ChatMessage{
		{Role: RoleSystem, Content: classifySystemPrompt()},
		{Role: RoleUser, Content: fmt.Sprintf("Title: %s\nURL: %s", title, url)},
	}
}

func classifySystemPrompt() string {
	return "You classify bookmarks. Reply with a JSON array of at most " +
		fmt.Sprintf("%d", MaxTags) + " tags chosen from this list: " +
		strings.Join(Whitelist, ", ") +
		". Reply with the JSON array only, no prose."
}
