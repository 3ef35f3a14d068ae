package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/bkmarks/bkmarkd/internal/logger"
	"github.com/bkmarks/bkmarkd/internal/sources/rules"
)

// RulesReloader handles periodic reloading of the tag rules file
type RulesReloader struct {
	loader        *rules.Loader
	source        *rules.Source
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewRulesReloader creates a new rules reloader
func NewRulesReloader(
	rulesFile string,
	source *rules.Source,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *RulesReloader {
	return &RulesReloader{
		loader:        rules.NewLoader(rulesFile),
		source:        source,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process
func (rr *RulesReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := rr.Reload(ctx); err != nil {
		return fmt.Errorf("initial rules load failed: %w", err)
	}

	// Start periodic reload
	ticker := time.NewTicker(rr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := rr.Reload(ctx); err != nil {
					rr.logger.Error("failed to reload tag rules",
						logger.Error(err))
				}
			case <-rr.manualTrigger:
				rr.logger.Info("manual rules reload triggered")
				if err := rr.Reload(ctx); err != nil {
					rr.logger.Error("failed to reload tag rules",
						logger.Error(err))
				}
			case <-rr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (rr *RulesReloader) Stop() {
	close(rr.stopCh)
}

// Reload loads the rules file and swaps it into the live source. Handlers
// holding the previous table finish their request on the old rules.
func (rr *RulesReloader) Reload(_ context.Context) error {
	rr.logger.Info("reloading tag rules")

	table, err := rr.loader.Load()
	if err != nil {
		return err
	}

	rr.source.Replace(table)
	rr.logger.Info("tag rules loaded",
		logger.Int("hosts", len(table.Hosts)),
		logger.Int("titles", len(table.Titles)))
	return nil
}
