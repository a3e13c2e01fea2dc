// Package maintenance runs periodic background housekeeping as Go tickers.
// All scheduled work is driven from Go since the API is already a
// persistent, long-running service (required for LISTEN/NOTIFY).
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/oddmarket/listing-notify/internal/notify"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	StatePurgeInterval time.Duration // orphaned notification-state rows
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		StatePurgeInterval: time.Hour,
	}
}

// Start launches the configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, state *notify.PGStateStore, cfg Config, logger *slog.Logger) {
	logger.Info("maintenance tickers started", "state_purge", cfg.StatePurgeInterval)

	if cfg.StatePurgeInterval > 0 {
		t := time.NewTicker(cfg.StatePurgeInterval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				purgeState(ctx, state, logger)
			case <-ctx.Done():
				logger.Info("maintenance tickers stopped")
				return
			}
		}
	}

	<-ctx.Done()
	logger.Info("maintenance tickers stopped")
}

// purgeState removes notification-state rows whose listing is gone, keeping
// the ledger free of orphans.
func purgeState(ctx context.Context, state *notify.PGStateStore, logger *slog.Logger) {
	n, err := state.PurgeOrphans(ctx)
	if err != nil {
		logger.Warn("state purge failed", "error", err)
		return
	}
	if n > 0 {
		logger.Info("purged orphaned notification state", "count", n)
	}
}
