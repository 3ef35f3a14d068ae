package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bkmarks/bkmarkd/internal/httpserver/deps"
	"github.com/bkmarks/bkmarkd/internal/httpserver/handlers"
	"github.com/bkmarks/bkmarkd/internal/httpserver/mw"
)

func init() { Register(registerLinks) }

func registerLinks(r chi.Router, d deps.Deps) {
	r.Route("/api/links", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
		r.Use(mw.RequireUser())

		// Each call fans out HTTP probes, so keep the rate tight.
		r.With(mw.RateLimit(mw.RateLimitConfig{
			Burst:             2,
			RefillPerIPPerMin: 6,
			MaxEntries:        1024,
			SweepInterval:     time.Minute,
			IdleTTL:           15 * time.Minute,
			TrustProxy:        d.TrustProxy,
		})).Post("/check", handlers.LinksCheck(d))
	})
}
