package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	RulesFile           string        // path to the tag rules yaml (optional, empty = built-in rules)
	RulesReloadInterval time.Duration // interval to reload the rules file (default: 1h)

	// AI classification
	AIProvider       string        // "none" | "openai" | "openai_compatible" | "gemini" (fallback when nothing is stored)
	OpenAIModel      string        // optional, ex: "gpt-4o-mini"
	OpenAIBaseURL    string        // optional, for OpenAI-compatible relays
	OpenAIAPIKey     string        // optional
	GeminiModel      string        // optional, ex: "gemini-1.5-flash"
	GeminiAPIKey     string        // optional
	AIDailyGlobal    int64         // daily classification cap across all users (0 = unlimited)
	AIDailyPerUser   int64         // daily classification cap per user (0 = unlimited)
	AIMaxTokens      int           // completion token cap per classification (default: 120)
	AIRequestTimeout time.Duration // timeout per provider call (default: 15s)

	LinkCheckTimeout time.Duration // timeout per link liveness probe (default: 8s)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("BK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("BK_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("BK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("BK_PRETTY_LOG", true),

		// Tag rules
		RulesFile:           getenv("BK_RULES_FILE", ""), // Optional, empty = built-in rule table
		RulesReloadInterval: mustDuration("BK_RULES_RELOAD_INTERVAL", time.Hour),

		// AI classification
		AIProvider:       getenv("BK_AI_PROVIDER", "none"),
		OpenAIModel:      getenv("BK_OPENAI_MODEL", ""),
		OpenAIBaseURL:    getenv("BK_OPENAI_BASE_URL", ""),
		OpenAIAPIKey:     getenv("BK_OPENAI_API_KEY", ""),
		GeminiModel:      getenv("BK_GEMINI_MODEL", ""),
		GeminiAPIKey:     getenv("BK_GEMINI_API_KEY", ""),
		AIDailyGlobal:    getenvInt64("BK_AI_DAILY_LIMIT_GLOBAL", 1000),
		AIDailyPerUser:   getenvInt64("BK_AI_DAILY_LIMIT_USER", 100),
		AIMaxTokens:      getenvInt("BK_AI_MAX_TOKENS", 120),
		AIRequestTimeout: mustDuration("BK_AI_REQUEST_TIMEOUT", 15*time.Second),

		LinkCheckTimeout: mustDuration("BK_LINK_CHECK_TIMEOUT", 8*time.Second),

		// Redis settings
		RedisAddr:             requireEnv("BK_REDIS_ADDR"),
		RedisUser:             getenv("BK_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("BK_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("BK_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("BK_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("BK_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("BK_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("BK_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: BK_REDIS_PASSWORD is required when BK_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.OpenAIAPIKey = "***REDACTED***"
		cfgCopy.GeminiAPIKey = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
