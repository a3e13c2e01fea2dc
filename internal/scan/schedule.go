package scan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// StartSchedule registers the scanner on a cron schedule and starts it.
// The spec uses the standard five-field cron format (e.g. "0 9 * * *" for
// a daily 09:00 run). The job stops when ctx is cancelled. Extra runs on
// top of the cron tick (admin endpoint, CLI) are no-ops inside the cadence
// window.
func StartSchedule(ctx context.Context, spec string, s *Scanner, logger *slog.Logger) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		s.Run(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid reminder cron spec %q: %w", spec, err)
	}

	c.Start()
	logger.Info("reminder scan scheduled", "cron", spec)

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		logger.Info("reminder scan schedule stopped")
	}()
	return nil
}
