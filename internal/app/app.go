package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/bkmarks/bkmarkd/internal/ai"
	"github.com/bkmarks/bkmarkd/internal/config"
	"github.com/bkmarks/bkmarkd/internal/httpserver"
	"github.com/bkmarks/bkmarkd/internal/httpserver/deps"
	"github.com/bkmarks/bkmarkd/internal/logger"
	"github.com/bkmarks/bkmarkd/internal/redis"
	"github.com/bkmarks/bkmarkd/internal/scheduler"
	"github.com/bkmarks/bkmarkd/internal/sources/rules"
	"github.com/bkmarks/bkmarkd/internal/status"
	redisstore "github.com/bkmarks/bkmarkd/internal/store/redis"
	"github.com/bkmarks/bkmarkd/internal/sync"
	"github.com/bkmarks/bkmarkd/internal/version"
)

type App struct {
	cfg           *config.Config
	logger        logger.Logger
	server        *httpserver.Server
	redisClient   *goredis.Client
	rulesReloader *scheduler.RulesReloader
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	store := redisstore.NewStore(redisClient)

	// Rule-based tagging starts from the built-in table; the reloader swaps
	// in the configured file when one is set.
	ruleSource := rules.NewSource(nil)

	var rulesReloader *scheduler.RulesReloader
	var rulesReloadTrigger chan struct{}
	if cfg.RulesFile != "" {
		loggerClient.Info("rules file configured, initializing rules reloader",
			logger.String("file", cfg.RulesFile))
		rulesReloadTrigger = make(chan struct{}, 1)
		rulesReloader = scheduler.NewRulesReloader(
			cfg.RulesFile,
			ruleSource,
			loggerClient,
			cfg.RulesReloadInterval,
			rulesReloadTrigger,
		)
	} else {
		loggerClient.Info("no rules file configured, using built-in rule table")
	}

	// AI classification stack
	resolver := ai.NewResolver(store, ai.Defaults{
		Provider:      cfg.AIProvider,
		OpenAIModel:   cfg.OpenAIModel,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		GeminiModel:   cfg.GeminiModel,
		GeminiAPIKey:  cfg.GeminiAPIKey,
	}, cfg.AIRequestTimeout)

	limits := ai.Limits{Global: cfg.AIDailyGlobal, PerUser: cfg.AIDailyPerUser}
	orchestrator := ai.NewOrchestrator(store, resolver, ruleSource, limits, cfg.AIMaxTokens, loggerClient)

	// Sync events classify inline and best-effort.
	processor := sync.NewProcessor(store, ruleSource, orchestrator, loggerClient)

	prober := status.NewProber(cfg.LinkCheckTimeout)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		TimeNow:      time.Now,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,

		RedisClient: redisClient,
		Store:       store,

		Processor:    processor,
		Orchestrator: orchestrator,
		Resolver:     resolver,
		AILimits:     limits,
		Rules:        ruleSource,
		Prober:       prober,

		RulesFile:          cfg.RulesFile,
		RulesReloadTrigger: rulesReloadTrigger,
		LinkCheckTimeout:   cfg.LinkCheckTimeout,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:           cfg,
		logger:        loggerClient,
		server:        server,
		redisClient:   redisClient,
		rulesReloader: rulesReloader,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting bkmarkd v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("bkmarkd %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start rules reloader (if a rules file is configured)
	if a.rulesReloader != nil {
		if err := a.rulesReloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start rules reloader: %w", err)
		}
		a.logger.Info("rules reloader started",
			logger.Duration("interval", a.cfg.RulesReloadInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.rulesReloader != nil {
		a.rulesReloader.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ bkmarkd stopped cleanly")
	return nil
}
