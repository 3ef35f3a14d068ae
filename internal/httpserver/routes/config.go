package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/bkmarks/bkmarkd/internal/httpserver/deps"
	"github.com/bkmarks/bkmarkd/internal/httpserver/handlers"
	"github.com/bkmarks/bkmarkd/internal/httpserver/mw"
)

func init() { Register(registerConfig) }

func registerConfig(r chi.Router, d deps.Deps) {
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Get("/api/config", handlers.ConfigInfo(d))
}
