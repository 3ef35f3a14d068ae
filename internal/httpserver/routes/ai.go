package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bkmarks/bkmarkd/internal/httpserver/deps"
	"github.com/bkmarks/bkmarkd/internal/httpserver/handlers"
	"github.com/bkmarks/bkmarkd/internal/httpserver/mw"
)

func init() { Register(registerAI) }

func registerAI(r chi.Router, d deps.Deps) {
	r.Route("/api/ai", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		// Classification and usage are per-user.
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireUser())
			r.With(mw.RateLimit(mw.RateLimitConfig{
				Burst:             10,
				RefillPerIPPerMin: 30,
				MaxEntries:        4096,
				SweepInterval:     time.Minute,
				IdleTTL:           15 * time.Minute,
				TrustProxy:        d.TrustProxy,
			})).Post("/classify", handlers.AIClassify(d))
			r.Get("/usage", handlers.AIUsage(d))
		})

		// Provider administration is restricted by network, not identity.
		r.Group(func(r chi.Router) {
			r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
			r.Get("/config", handlers.AIConfigGet(d))
			r.Put("/config", handlers.AIConfigPut(d))
			r.Post("/test", handlers.AITest(d))
			r.Post("/probe", handlers.AIProbe(d))
		})
	})
}
