package handlers

import (
	"net/http"

	"github.com/bkmarks/bkmarkd/internal/ai"
	"github.com/bkmarks/bkmarkd/internal/httpserver/deps"
)

type configInfoResponse struct {
	Version      string   `json:"version"`
	TagWhitelist []string `json:"tagWhitelist"`
	MaxTags      int      `json:"maxTags"`
	GlobalLimit  int64    `json:"globalLimit,omitempty"`
	UserLimit    int64    `json:"userLimit,omitempty"`
}

// ConfigInfo exposes the non-sensitive server settings clients need: the
// tag whitelist the AI is constrained to and the daily limits.
func ConfigInfo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, configInfoResponse{
			Version:      d.Version,
			TagWhitelist: ai.Whitelist,
			MaxTags:      ai.MaxTags,
			GlobalLimit:  d.AILimits.Global,
			UserLimit:    d.AILimits.PerUser,
		})
	}
}
