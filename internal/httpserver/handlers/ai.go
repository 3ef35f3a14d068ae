package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bkmarks/bkmarkd/internal/ai"
	"github.com/bkmarks/bkmarkd/internal/httpserver/deps"
	"github.com/bkmarks/bkmarkd/internal/httpserver/mw"
	"github.com/bkmarks/bkmarkd/internal/logger"
)

type classifyRequest struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// AIClassify runs the classification pipeline for one bookmark.
func AIClassify(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mw.UserID(r.Context())

		var req classifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if req.URL == "" {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}

		result, err := d.Orchestrator.Classify(r.Context(), userID, req.URL, req.Title)
		if err != nil {
			var httpErr *ai.HTTPError
			if errors.As(err, &httpErr) {
				d.Logger.Warn("provider call failed",
					logger.String("user", userID),
					logger.Int("status", httpErr.Status),
					logger.Error(err))
				writeError(w, http.StatusBadGateway, httpErr.Error())
				return
			}
			if errors.Is(err, ai.ErrUnavailable) {
				writeJSON(w, http.StatusOK, ai.Result{Skipped: true, Reason: ai.ReasonUnavailable})
				return
			}
			d.Logger.Error("classification failed",
				logger.String("user", userID),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "classification failed")
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// AIConfigGet returns the effective provider configuration without secrets.
func AIConfigGet(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pub, err := d.Resolver.Public(r.Context())
		if err != nil {
			d.Logger.Error("ai config resolve failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		writeJSON(w, http.StatusOK, pub)
	}
}

type aiConfigRequest struct {
	Provider      string  `json:"provider"`
	OpenAIModel   string  `json:"openaiModel,omitempty"`
	OpenAIBaseURL string  `json:"openaiBaseUrl,omitempty"`
	OpenAIAPIKey  *string `json:"openaiApiKey,omitempty"`
	GeminiModel   string  `json:"geminiModel,omitempty"`
	GeminiAPIKey  *string `json:"geminiApiKey,omitempty"`
}

// AIConfigPut replaces the stored provider configuration. API key fields
// are applied only when present, so a config update without keys leaves
// stored credentials untouched.
func AIConfigPut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req aiConfigRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}

		kind := ai.NormalizeProviderKind(req.Provider)
		cfg := ai.StoredConfig{
			Provider:      string(kind),
			OpenAIModel:   req.OpenAIModel,
			OpenAIBaseURL: req.OpenAIBaseURL,
			GeminiModel:   req.GeminiModel,
		}
		if err := d.Store.SetAIConfig(r.Context(), cfg); err != nil {
			d.Logger.Error("ai config save failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}

		if req.OpenAIAPIKey != nil || req.GeminiAPIKey != nil {
			update := ai.SecretUpdate{
				OpenAIAPIKey: req.OpenAIAPIKey,
				GeminiAPIKey: req.GeminiAPIKey,
			}
			if err := d.Store.UpdateAISecret(r.Context(), update); err != nil {
				d.Logger.Error("ai secret save failed", logger.Error(err))
				writeError(w, http.StatusInternalServerError, "storage unavailable")
				return
			}
		}

		pub, err := d.Resolver.Public(r.Context())
		if err != nil {
			d.Logger.Error("ai config resolve failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		writeJSON(w, http.StatusOK, pub)
	}
}

// AITest probes the currently configured provider with a minimal
// completion and reports whether it answered.
func AITest(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resolved, err := d.Resolver.Resolve(r.Context())
		if err != nil {
			d.Logger.Error("ai config resolve failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}

		results, err := d.Resolver.ProbeCandidates(r.Context(), []ai.ProbeCandidate{
			{Provider: string(resolved.Kind)},
		})
		if err != nil {
			d.Logger.Error("ai test failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		writeJSON(w, http.StatusOK, results[0])
	}
}

type probeRequest struct {
	Candidates []ai.ProbeCandidate `json:"candidates,omitempty"`
}

type probeResponse struct {
	Results []ai.ProbeResult `json:"results"`
}

// AIProbe tests one or more candidate provider configurations without
// persisting anything. With an empty body every variant is probed.
func AIProbe(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req probeRequest
		if r.Body != nil {
			// An empty body means "probe everything".
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		results, err := d.Resolver.ProbeCandidates(r.Context(), req.Candidates)
		if err != nil {
			d.Logger.Error("ai probe failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		writeJSON(w, http.StatusOK, probeResponse{Results: results})
	}
}

type usageResponse struct {
	Date        string             `json:"date"`
	Global      int64              `json:"globalUsed"`
	User        int64              `json:"userUsed"`
	GlobalLimit int64              `json:"globalLimit,omitempty"`
	UserLimit   int64              `json:"userLimit,omitempty"`
	Recent      []recentAILogEntry `json:"recent"`
}

type recentAILogEntry struct {
	URL   string   `json:"url"`
	Title string   `json:"title,omitempty"`
	Tags  []string `json:"tags"`
	At    string   `json:"at"`
}

// AIUsage reports today's classification counters and the caller's recent
// classification log.
func AIUsage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mw.UserID(r.Context())

		date := d.TimeNow().UTC().Format("2006-01-02")
		global, user, err := d.Store.Usage(r.Context(), userID, date)
		if err != nil {
			d.Logger.Error("usage load failed", logger.String("user", userID), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}

		entries, err := d.Store.AILog(r.Context(), userID)
		if err != nil {
			d.Logger.Warn("ai log load failed", logger.String("user", userID), logger.Error(err))
		}
		recent := make([]recentAILogEntry, 0, len(entries))
		for _, e := range entries {
			recent = append(recent, recentAILogEntry{
				URL:   e.URL,
				Title: e.Title,
				Tags:  e.Tags,
				At:    e.At.UTC().Format(time.RFC3339),
			})
		}

		writeJSON(w, http.StatusOK, usageResponse{
			Date:        date,
			Global:      global,
			User:        user,
			GlobalLimit: d.AILimits.Global,
			UserLimit:   d.AILimits.PerUser,
			Recent:      recent,
		})
	}
}
