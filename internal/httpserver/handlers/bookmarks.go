package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bkmarks/bkmarkd/internal/domain"
	"github.com/bkmarks/bkmarkd/internal/httpserver/deps"
	"github.com/bkmarks/bkmarkd/internal/httpserver/mw"
	"github.com/bkmarks/bkmarkd/internal/logger"
)

type bookmarkView struct {
	URL        string   `json:"url"`
	Title      string   `json:"title,omitempty"`
	Tags       []string `json:"tags"`
	AITags     []string `json:"aiTags,omitempty"`
	AIChecked  bool     `json:"aiChecked"`
	LinkStatus string   `json:"linkStatus,omitempty"`
	StatusCode int      `json:"statusCode,omitempty"`
	UpdatedAt  string   `json:"updatedAt"`
	CreatedAt  string   `json:"createdAt"`
}

type listResponse struct {
	Items []bookmarkView `json:"items"`
	Total int            `json:"total"`
}

// BookmarksList returns the caller's live bookmarks, most recently
// updated first, with the last known link status attached.
func BookmarksList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mw.UserID(r.Context())

		idx, err := d.Store.LoadIndex(r.Context(), userID)
		if err != nil {
			d.Logger.Error("index load failed", logger.String("user", userID), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		statuses, err := d.Store.LoadLinkStatus(r.Context(), userID)
		if err != nil {
			d.Logger.Warn("link status load failed", logger.String("user", userID), logger.Error(err))
		}

		items := idx.SortedItems()
		views := make([]bookmarkView, 0, len(items))
		for _, it := range items {
			view := bookmarkView{
				URL:       it.URL,
				Title:     it.Title,
				Tags:      it.Tags(),
				AITags:    it.AITags,
				AIChecked: it.AICheckedAt != nil,
				UpdatedAt: it.UpdatedAt.UTC().Format(time.RFC3339),
				CreatedAt: it.CreatedAt.UTC().Format(time.RFC3339),
			}
			if ls, ok := statuses[it.URL]; ok {
				view.LinkStatus = ls.Status
				view.StatusCode = ls.Code
			}
			views = append(views, view)
		}
		writeJSON(w, http.StatusOK, listResponse{Items: views, Total: len(views)})
	}
}

type deletedResponse struct {
	Deleted []domain.DeletedEntry `json:"deleted"`
	Total   int                   `json:"total"`
}

// BookmarksDeleted returns the caller's tombstones, newest first.
func BookmarksDeleted(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mw.UserID(r.Context())

		idx, err := d.Store.LoadIndex(r.Context(), userID)
		if err != nil {
			d.Logger.Error("index load failed", logger.String("user", userID), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		entries := idx.SortedDeleted()
		writeJSON(w, http.StatusOK, deletedResponse{Deleted: entries, Total: len(entries)})
	}
}

// BookmarksStats returns aggregate counters over the caller's index.
func BookmarksStats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mw.UserID(r.Context())

		idx, err := d.Store.LoadIndex(r.Context(), userID)
		if err != nil {
			d.Logger.Error("index load failed", logger.String("user", userID), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		writeJSON(w, http.StatusOK, idx.Stats())
	}
}

type updateTagsRequest struct {
	URL  string   `json:"url"`
	Tags []string `json:"tags"`
}

// BookmarksUpdateTags replaces the manual tags of one bookmark. Manual
// tags are free-form; only AI tags are constrained to the whitelist.
func BookmarksUpdateTags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mw.UserID(r.Context())

		var req updateTagsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if req.URL == "" {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}

		key := domain.NormalizeURL(req.URL)
		idx, err := d.Store.LoadIndex(r.Context(), userID)
		if err != nil {
			d.Logger.Error("index load failed", logger.String("user", userID), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		item, ok := idx.Items[key]
		if !ok {
			writeError(w, http.StatusNotFound, "bookmark not found")
			return
		}

		item.ManualTags = domain.UnionTags(req.Tags)
		item.UpdatedAt = d.TimeNow()
		if err := d.Store.SaveIndex(r.Context(), userID, idx); err != nil {
			d.Logger.Error("index save failed", logger.String("user", userID), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"url": key, "tags": item.Tags()})
	}
}
