package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeCandidates_Unconfigured(t *testing.T) {
	r := NewResolver(&fakeConfigStore{}, Defaults{}, time.Second)

	results, err := r.ProbeCandidates(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	byKind := make(map[ProviderKind]ProbeResult, len(results))
	for _, res := range results {
		byKind[res.Provider] = res
	}

	assert.Equal(t, "not_configured", byKind[ProviderNone].Error)
	assert.Equal(t, "api_key_missing", byKind[ProviderOpenAICompatible].Error)
	assert.Equal(t, "api_key_missing", byKind[ProviderGemini].Error)
	for _, res := range results {
		assert.False(t, res.OK)
	}
}

func TestProbeCandidates_ExplicitCandidate(t *testing.T) {
	r := NewResolver(&fakeConfigStore{}, Defaults{}, time.Second)

	results, err := r.ProbeCandidates(context.Background(), []ProbeCandidate{
		{Provider: "workers"},
		{Provider: "gemini"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Retired provider names normalize to none.
	assert.Equal(t, ProviderNone, results[0].Provider)
	assert.Equal(t, "not_configured", results[0].Error)

	assert.Equal(t, ProviderGemini, results[1].Provider)
	assert.Equal(t, "api_key_missing", results[1].Error)
}

func TestBoundErrorText(t *testing.T) {
	short := "upstream exploded"
	assert.Equal(t, short, boundErrorText(short))

	long := make([]rune, 0, 600)
	for i := 0; i < 600; i++ {
		long = append(long, 'x')
	}
	bounded := boundErrorText(string(long))
	assert.LessOrEqual(t, len([]rune(bounded)), maxErrorLen+1)
	assert.Contains(t, bounded, "…")
}
