package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/bkmarks/bkmarkd/internal/httpserver/deps"
	"github.com/bkmarks/bkmarkd/internal/httpserver/mw"
	"github.com/bkmarks/bkmarkd/internal/logger"
	"github.com/bkmarks/bkmarkd/internal/status"
)

const (
	defaultCheckLimit = 20
	maxCheckLimit     = 50

	// Links probed within this window are considered fresh and skipped.
	recheckAfter = 24 * time.Hour
)

type linksCheckResponse struct {
	Checked  int                  `json:"checked"`
	Statuses status.LinkStatusMap `json:"statuses"`
}

// LinksCheck probes the caller's least recently checked bookmarks and
// records their liveness. Checks are request-driven: each call works
// through at most limit links, so repeated calls sweep the whole index.
func LinksCheck(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mw.UserID(r.Context())

		limit := defaultCheckLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}
		if limit > maxCheckLimit {
			limit = maxCheckLimit
		}

		idx, err := d.Store.LoadIndex(r.Context(), userID)
		if err != nil {
			d.Logger.Error("index load failed", logger.String("user", userID), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		statuses, err := d.Store.LoadLinkStatus(r.Context(), userID)
		if err != nil {
			d.Logger.Error("link status load failed", logger.String("user", userID), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}

		// Unchecked links first, then the stalest; anything probed
		// within the recheck window is left alone.
		cutoff := d.TimeNow().Add(-recheckAfter)
		candidates := make([]string, 0, len(idx.Items))
		for url := range idx.Items {
			if ls, ok := statuses[url]; ok && ls.LastCheckedAt.After(cutoff) {
				continue
			}
			candidates = append(candidates, url)
		}
		sortByStaleness(candidates, statuses)
		if len(candidates) > limit {
			candidates = candidates[:limit]
		}

		checked := status.LinkStatusMap{}
		for _, url := range candidates {
			ls := d.Prober.Check(r.Context(), url)
			statuses[url] = ls
			checked[url] = ls
		}

		if err := d.Store.SaveLinkStatus(r.Context(), userID, statuses); err != nil {
			d.Logger.Error("link status save failed", logger.String("user", userID), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		writeJSON(w, http.StatusOK, linksCheckResponse{Checked: len(checked), Statuses: checked})
	}
}

func sortByStaleness(urls []string, statuses status.LinkStatusMap) {
	sort.Slice(urls, func(i, j int) bool {
		a, b := urls[i], urls[j]
		sa, okA := statuses[a]
		sb, okB := statuses[b]
		if okA != okB {
			return !okA // never checked sorts first
		}
		if !okA {
			return a < b
		}
		if !sa.LastCheckedAt.Equal(sb.LastCheckedAt) {
			return sa.LastCheckedAt.Before(sb.LastCheckedAt)
		}
		return a < b
	})
}
