package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bkmarks/bkmarkd/internal/domain"
	"github.com/bkmarks/bkmarkd/internal/httpserver/deps"
	"github.com/bkmarks/bkmarkd/internal/httpserver/mw"
	"github.com/bkmarks/bkmarkd/internal/logger"
)

type tagDefsResponse struct {
	Tags []domain.TagDefinition `json:"tags"`
}

// TagsGet returns the caller's tag registry, seeding defaults on first use.
func TagsGet(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mw.UserID(r.Context())

		defs, err := d.Store.GetTagDefs(r.Context(), userID)
		if err != nil {
			d.Logger.Error("tag defs load failed", logger.String("user", userID), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		writeJSON(w, http.StatusOK, tagDefsResponse{Tags: defs})
	}
}

type tagDefsRequest struct {
	Tags []domain.TagDefinition `json:"tags"`
}

// TagsPut replaces the caller's tag registry.
func TagsPut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mw.UserID(r.Context())

		var req tagDefsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if len(req.Tags) == 0 {
			writeError(w, http.StatusBadRequest, "tags are required")
			return
		}

		if err := d.Store.SetTagDefs(r.Context(), userID, req.Tags); err != nil {
			d.Logger.Error("tag defs save failed", logger.String("user", userID), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}

		defs, err := d.Store.GetTagDefs(r.Context(), userID)
		if err != nil {
			d.Logger.Error("tag defs reload failed", logger.String("user", userID), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		writeJSON(w, http.StatusOK, tagDefsResponse{Tags: defs})
	}
}
