package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConfigStore struct {
	cfg    *StoredConfig
	secret StoredSecret
	sets   []StoredConfig
}

func (f *fakeConfigStore) GetAIConfig(context.Context) (*StoredConfig, error) { return f.cfg, nil }

func (f *fakeConfigStore) SetAIConfig(_ context.Context, cfg StoredConfig) error {
	f.sets = append(f.sets, cfg)
	f.cfg = &cfg
	return nil
}

func (f *fakeConfigStore) GetAISecret(context.Context) (StoredSecret, error) { return f.secret, nil }

func TestNormalizeProviderKind(t *testing.T) {
	cases := map[string]ProviderKind{
		"openai":            ProviderOpenAI,
		"OpenAI":            ProviderOpenAI,
		"openai_compatible": ProviderOpenAICompatible,
		"openai-compatible": ProviderOpenAICompatible,
		"compatible":        ProviderOpenAICompatible,
		"newapi":            ProviderOpenAICompatible,
		"gemini":            ProviderGemini,
		"google":            ProviderGemini,
		"none":              ProviderNone,
		"":                  ProviderNone,
		"workers":           ProviderNone,
		"cloudflare":        ProviderNone,
		"something-else":    ProviderNone,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeProviderKind(in), "input %q", in)
	}
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("no config no defaults", func(t *testing.T) {
		r := NewResolver(&fakeConfigStore{}, Defaults{}, time.Second)
		res, err := r.Resolve(ctx)
		require.NoError(t, err)
		assert.Equal(t, ProviderNone, res.Kind)
		assert.False(t, res.HasSecret)
	})

	t.Run("stored openai compatible wins over defaults", func(t *testing.T) {
		store := &fakeConfigStore{
			cfg: &StoredConfig{
				Provider:      "openai_compatible",
				OpenAIModel:   "custom-model",
				OpenAIBaseURL: "https://relay.example.com",
			},
			secret: StoredSecret{OpenAIAPIKey: "sk-stored"},
		}
		r := NewResolver(store, Defaults{OpenAIModel: "default-model", OpenAIAPIKey: "sk-default"}, time.Second)
		res, err := r.Resolve(ctx)
		require.NoError(t, err)
		assert.Equal(t, ProviderOpenAICompatible, res.Kind)
		assert.Equal(t, "custom-model", res.Model)
		assert.Equal(t, "https://relay.example.com/v1", res.BaseURL)
		assert.Equal(t, "sk-stored", res.APIKey)
		assert.True(t, res.HasSecret)
	})

	t.Run("defaults fill gaps", func(t *testing.T) {
		store := &fakeConfigStore{cfg: &StoredConfig{Provider: "gemini"}}
		r := NewResolver(store, Defaults{GeminiAPIKey: "g-key"}, time.Second)
		res, err := r.Resolve(ctx)
		require.NoError(t, err)
		assert.Equal(t, ProviderGemini, res.Kind)
		assert.Equal(t, defaultGeminiModel, res.Model)
		assert.True(t, res.HasSecret)
	})

	t.Run("default provider used when store empty", func(t *testing.T) {
		r := NewResolver(&fakeConfigStore{secret: StoredSecret{OpenAIAPIKey: "k"}},
			Defaults{Provider: "openai"}, time.Second)
		res, err := r.Resolve(ctx)
		require.NoError(t, err)
		assert.Equal(t, ProviderOpenAI, res.Kind)
	})

	t.Run("retired provider migrates to none", func(t *testing.T) {
		store := &fakeConfigStore{cfg: &StoredConfig{Provider: "workers"}}
		r := NewResolver(store, Defaults{}, time.Second)

		res, err := r.Resolve(ctx)
		require.NoError(t, err)
		assert.Equal(t, ProviderNone, res.Kind)
		require.Len(t, store.sets, 1)
		assert.Equal(t, string(ProviderNone), store.sets[0].Provider)

		// Second resolve must not write again.
		_, err = r.Resolve(ctx)
		require.NoError(t, err)
		assert.Len(t, store.sets, 1)
	})
}

func TestResolver_Provider_MissingKeyDisabled(t *testing.T) {
	store := &fakeConfigStore{cfg: &StoredConfig{Provider: "gemini"}}
	r := NewResolver(store, Defaults{}, time.Second)

	p, res, err := r.Provider(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, res.Kind)
	assert.False(t, res.HasSecret)
	assert.Equal(t, "none", p.Name())

	_, err = p.Complete(context.Background(), []ChatMessage{{Role: RoleUser, Content: "hi"}}, 5)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestResolver_Public(t *testing.T) {
	store := &fakeConfigStore{
		cfg:    &StoredConfig{Provider: "openai_compatible", OpenAIBaseURL: "https://relay.example.com/v1"},
		secret: StoredSecret{OpenAIAPIKey: "sk-secret"},
	}
	r := NewResolver(store, Defaults{}, time.Second)

	pub, err := r.Public(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAICompatible, pub.Provider)
	assert.True(t, pub.HasSecret)
	// Secrets must never surface in the public view.
	assert.NotContains(t, pub.BaseURL, "sk-secret")
	assert.NotContains(t, pub.Model, "sk-secret")
}
