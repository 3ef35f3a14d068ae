package ai

import (
	"context"
	"strings"
	"time"
)

// ProviderKind names a provider variant in configuration.
type ProviderKind string

const (
	ProviderNone             ProviderKind = "none"
	ProviderOpenAI           ProviderKind = "openai"
	ProviderOpenAICompatible ProviderKind = "openai_compatible"
	ProviderGemini           ProviderKind = "gemini"
)

// NormalizeProviderKind folds the spellings seen in stored configs onto
// the closed set. The retired workers variant maps to none.
func NormalizeProviderKind(raw string) ProviderKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return ProviderOpenAI
	case "openai_compatible", "openai-compatible", "compatible", "newapi":
		return ProviderOpenAICompatible
	case "gemini", "google":
		return ProviderGemini
	default:
		return ProviderNone
	}
}

// isRetiredProvider reports whether a stored provider value refers to the
// removed workers backend and should be migrated to none.
func isRetiredProvider(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "workers", "cf", "cloudflare", "workers_ai", "workers-ai":
		return true
	default:
		return false
	}
}

// StoredConfig is the admin-set, non-secret provider configuration kept in
// the KV store.
type StoredConfig struct {
	Provider      string `json:"provider"`
	OpenAIModel   string `json:"openaiModel,omitempty"`
	OpenAIBaseURL string `json:"openaiBaseUrl,omitempty"`
	GeminiModel   string `json:"geminiModel,omitempty"`
}

// StoredSecret holds provider credentials, stored under a separate key so
// the public configuration can be read without exposing them.
type StoredSecret struct {
	OpenAIAPIKey string `json:"openaiApiKey,omitempty"`
	GeminiAPIKey string `json:"geminiApiKey,omitempty"`
}

// SecretUpdate carries explicit secret changes. A nil field leaves the
// stored value alone; a pointer to "" clears it.
type SecretUpdate struct {
	OpenAIAPIKey *string
	GeminiAPIKey *string
}

// ConfigStore is the slice of the storage layer configuration resolution
// needs.
type ConfigStore interface {
	GetAIConfig(ctx context.Context) (*StoredConfig, error)
	SetAIConfig(ctx context.Context, cfg StoredConfig) error
	GetAISecret(ctx context.Context) (StoredSecret, error)
}

// Defaults are the deployment-level fallbacks used when the KV store has
// no (complete) configuration. Fail-closed: classification stays disabled
// unless a provider is explicitly configured somewhere.
type Defaults struct {
	Provider      string
	OpenAIModel   string
	OpenAIBaseURL string
	OpenAIAPIKey  string
	GeminiModel   string
	GeminiAPIKey  string
}

// Resolved is the outcome of one configuration-resolution step: the
// selected variant with its effective model, endpoint and credential.
type Resolved struct {
	Kind      ProviderKind
	Model     string
	BaseURL   string
	APIKey    string
	HasSecret bool
}

// Resolver turns stored configuration plus deployment defaults into a
// concrete Provider. It is the single place provider selection happens.
type Resolver struct {
	store    ConfigStore
	defaults Defaults
	timeout  time.Duration
}

// NewResolver creates a resolver. timeout bounds every outbound provider
// call built from the resolved configuration.
func NewResolver(store ConfigStore, defaults Defaults, timeout time.Duration) *Resolver {
	return &Resolver{store: store, defaults: defaults, timeout: timeout}
}

// Resolve computes the effective provider configuration. Stored config
// wins over deployment defaults field by field; a stored retired provider
// is migrated to none with an idempotent write-back.
func (r *Resolver) Resolve(ctx context.Context) (Resolved, error) {
	cfg, err := r.store.GetAIConfig(ctx)
	if err != nil {
		return Resolved{Kind: ProviderNone}, err
	}

	kind := ProviderNone
	var stored StoredConfig
	if cfg != nil {
		stored = *cfg
		kind = NormalizeProviderKind(stored.Provider)
		if isRetiredProvider(stored.Provider) {
			// Write back a normalized config so the migration runs once.
			if err := r.store.SetAIConfig(ctx, StoredConfig{Provider: string(ProviderNone)}); err != nil {
				return Resolved{Kind: ProviderNone}, err
			}
		}
	}
	if kind == ProviderNone {
		kind = NormalizeProviderKind(r.defaults.Provider)
	}

	secret, err := r.store.GetAISecret(ctx)
	if err != nil {
		return Resolved{Kind: ProviderNone}, err
	}

	switch kind {
	case ProviderOpenAI, ProviderOpenAICompatible:
		res := Resolved{
			Kind:    kind,
			Model:   firstNonEmpty(stored.OpenAIModel, r.defaults.OpenAIModel, defaultOpenAIModel),
			BaseURL: NormalizeOpenAIBaseURL(firstNonEmpty(stored.OpenAIBaseURL, r.defaults.OpenAIBaseURL)),
			APIKey:  firstNonEmpty(secret.OpenAIAPIKey, r.defaults.OpenAIAPIKey),
		}
		res.HasSecret = res.APIKey != ""
		return res, nil

	case ProviderGemini:
		res := Resolved{
			Kind:    kind,
			Model:   firstNonEmpty(stored.GeminiModel, r.defaults.GeminiModel, defaultGeminiModel),
			BaseURL: geminiBaseURL,
			APIKey:  firstNonEmpty(secret.GeminiAPIKey, r.defaults.GeminiAPIKey),
		}
		res.HasSecret = res.APIKey != ""
		return res, nil

	default:
		return Resolved{Kind: ProviderNone}, nil
	}
}

// Provider resolves configuration and instantiates the matching variant.
// Missing credentials collapse to the disabled provider.
func (r *Resolver) Provider(ctx context.Context) (Provider, Resolved, error) {
	res, err := r.Resolve(ctx)
	if err != nil {
		return Disabled(), res, err
	}
	return r.build(res), res, nil
}

func (r *Resolver) build(res Resolved) Provider {
	if res.APIKey == "" {
		return Disabled()
	}
	switch res.Kind {
	case ProviderOpenAI, ProviderOpenAICompatible:
		return NewOpenAICompatible(res.APIKey, res.BaseURL, res.Model, r.timeout)
	case ProviderGemini:
		return NewGemini(res.APIKey, res.Model, r.timeout)
	default:
		return Disabled()
	}
}

// PublicConfig is the admin-visible configuration view; it reveals whether
// a credential exists but never the credential itself.
type PublicConfig struct {
	Provider  ProviderKind `json:"provider"`
	Model     string       `json:"model,omitempty"`
	BaseURL   string       `json:"baseUrl,omitempty"`
	HasSecret bool         `json:"hasSecret"`
}

// Public returns the admin-visible view of the effective configuration.
func (r *Resolver) Public(ctx context.Context) (PublicConfig, error) {
	res, err := r.Resolve(ctx)
	if err != nil {
		return PublicConfig{Provider: ProviderNone}, err
	}
	if res.Kind == ProviderNone {
		return PublicConfig{Provider: ProviderNone}, nil
	}
	return PublicConfig{
		Provider:  res.Kind,
		Model:     res.Model,
		BaseURL:   res.BaseURL,
		HasSecret: res.HasSecret,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
