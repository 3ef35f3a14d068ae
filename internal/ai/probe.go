package ai

import (
	"context"
	"time"
)

// probeMaxTokens keeps liveness probes cheap; the reply content is
// irrelevant, only whether the provider answers.
const probeMaxTokens = 5

// ProbeCandidate describes one provider configuration to test. Empty
// fields fall back to the resolver's effective configuration.
type ProbeCandidate struct {
	Provider      string `json:"provider"`
	OpenAIAPIKey  string `json:"openaiApiKey,omitempty"`
	OpenAIModel   string `json:"openaiModel,omitempty"`
	OpenAIBaseURL string `json:"openaiBaseUrl,omitempty"`
	GeminiAPIKey  string `json:"geminiApiKey,omitempty"`
	GeminiModel   string `json:"geminiModel,omitempty"`
}

// ProbeResult is the outcome of probing one candidate.
type ProbeResult struct {
	Provider  ProviderKind `json:"provider"`
	OK        bool         `json:"ok"`
	LatencyMs int64        `json:"latencyMs,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// ProbeCandidates tests each candidate with a minimal completion and
// reports per-candidate outcomes. With no candidates supplied, every
// configurable variant is probed against the stored configuration.
// Candidates are probed sequentially so providers sharing a quota are not
// hammered in parallel.
func (r *Resolver) ProbeCandidates(ctx context.Context, candidates []ProbeCandidate) ([]ProbeResult, error) {
	resolved, err := r.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	secret, err := r.store.GetAISecret(ctx)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		candidates = []ProbeCandidate{
			{Provider: string(ProviderNone)},
			{Provider: string(ProviderOpenAICompatible)},
			{Provider: string(ProviderGemini)},
		}
	}

	results := make([]ProbeResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, r.probeOne(ctx, c, resolved, secret))
	}
	return results, nil
}

func (r *Resolver) probeOne(ctx context.Context, c ProbeCandidate, resolved Resolved, secret StoredSecret) ProbeResult {
	kind := NormalizeProviderKind(c.Provider)
	result := ProbeResult{Provider: kind}

	var provider Provider
	switch kind {
	case ProviderOpenAI, ProviderOpenAICompatible:
		apiKey := firstNonEmpty(c.OpenAIAPIKey, secret.OpenAIAPIKey, r.defaults.OpenAIAPIKey)
		if apiKey == "" {
			result.Error = "api_key_missing"
			return result
		}
		model := firstNonEmpty(c.OpenAIModel, resolvedModel(resolved, kind), r.defaults.OpenAIModel, defaultOpenAIModel)
		baseURL := NormalizeOpenAIBaseURL(firstNonEmpty(c.OpenAIBaseURL, resolvedBaseURL(resolved, kind), r.defaults.OpenAIBaseURL))
		provider = NewOpenAICompatible(apiKey, baseURL, model, r.timeout)

	case ProviderGemini:
		apiKey := firstNonEmpty(c.GeminiAPIKey, secret.GeminiAPIKey, r.defaults.GeminiAPIKey)
		if apiKey == "" {
			result.Error = "api_key_missing"
			return result
		}
		model := firstNonEmpty(c.GeminiModel, resolvedModel(resolved, kind), r.defaults.GeminiModel, defaultGeminiModel)
		provider = NewGemini(apiKey, model, r.timeout)

	default:
		result.Error = "not_configured"
		return result
	}

	start := time.Now()
	_, err := provider.Complete(ctx, []ChatMessage{{Role: RoleUser, Content: "test"}}, probeMaxTokens)
	result.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		result.Error = boundErrorText(err.Error())
		return result
	}
	result.OK = true
	return result
}

// resolvedModel returns the stored effective model only when the stored
// provider matches the probed variant; probing gemini must not inherit an
// openai model name.
func resolvedModel(resolved Resolved, kind ProviderKind) string {
	if sameFamily(resolved.Kind, kind) {
		return resolved.Model
	}
	return ""
}

func resolvedBaseURL(resolved Resolved, kind ProviderKind) string {
	if sameFamily(resolved.Kind, kind) {
		return resolved.BaseURL
	}
	return ""
}

func sameFamily(a, b ProviderKind) bool {
	if a == b {
		return true
	}
	openai := func(k ProviderKind) bool { return k == ProviderOpenAI || k == ProviderOpenAICompatible }
	return openai(a) && openai(b)
}
