package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/bkmarks/bkmarkd/internal/httpserver/deps"
	"github.com/bkmarks/bkmarkd/internal/httpserver/handlers"
	"github.com/bkmarks/bkmarkd/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
		r.Use(mw.RequireUser())

		r.Post("/sync", handlers.Sync(d))
		r.Get("/list", handlers.BookmarksList(d))
		r.Get("/deleted", handlers.BookmarksDeleted(d))
		r.Get("/stats", handlers.BookmarksStats(d))
		r.Put("/tags", handlers.BookmarksUpdateTags(d))
	})
}
