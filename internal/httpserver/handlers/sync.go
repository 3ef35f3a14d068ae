package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/bkmarks/bkmarkd/internal/httpserver/deps"
	"github.com/bkmarks/bkmarkd/internal/httpserver/mw"
	"github.com/bkmarks/bkmarkd/internal/logger"
	"github.com/bkmarks/bkmarkd/internal/sync"
)

// maxSyncBody bounds a sync payload. A full sync of a few thousand
// bookmarks stays well under this.
const maxSyncBody = 4 << 20

// Sync ingests one bookmark sync event for the calling user.
func Sync(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mw.UserID(r.Context())

		body, err := io.ReadAll(io.LimitReader(r.Body, maxSyncBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable body")
			return
		}

		ev, err := sync.DecodeEvent(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		report, err := d.Processor.Apply(r.Context(), userID, ev)
		if err != nil {
			if errors.Is(err, sync.ErrBadEvent) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			d.Logger.Error("sync apply failed",
				logger.String("user", userID),
				logger.String("type", string(ev.Type)),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "sync failed")
			return
		}

		d.Logger.Info("sync event applied",
			logger.String("user", userID),
			logger.String("type", string(ev.Type)),
			logger.Int("applied", report.Applied),
			logger.Int("skipped", report.Skipped))
		writeJSON(w, http.StatusOK, report)
	}
}
