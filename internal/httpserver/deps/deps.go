package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bkmarks/bkmarkd/internal/ai"
	"github.com/bkmarks/bkmarkd/internal/logger"
	"github.com/bkmarks/bkmarkd/internal/sources/rules"
	"github.com/bkmarks/bkmarkd/internal/status"
	redisstore "github.com/bkmarks/bkmarkd/internal/store/redis"
	"github.com/bkmarks/bkmarkd/internal/sync"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to access the server
	AllowedCIDRS []string         // IPs allowed to access healthz/readyz endpoints
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)

	RedisClient *redis.Client     // Redis client connection
	Store       *redisstore.Store // Bookmark/tag/usage storage

	Processor    *sync.Processor  // Sync event processor
	Orchestrator *ai.Orchestrator // AI classification pipeline
	Resolver     *ai.Resolver     // AI provider configuration resolution
	AILimits     ai.Limits        // Daily classification caps (for reporting)
	Rules        *rules.Source    // Active rule-based tag table
	Prober       *status.Prober   // Link liveness prober

	RulesFile          string        // Path to the rules yaml ("" = built-in rules only)
	RulesReloadTrigger chan struct{} // Channel to trigger a manual rules reload (nil if no rules file)
	LinkCheckTimeout   time.Duration // Per-link probe timeout
}
