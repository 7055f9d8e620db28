package checker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}

// Start runs CheckAll on schedule until ctx is cancelled. A run still in
// progress when the next one is due causes that next run to be skipped.
func (c *SiteChecker) Start(ctx context.Context, schedule string) error {
	logger := cronLogger{l: c.logger}
	sched := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	entryID, err := sched.AddFunc(schedule, func() {
		if err := c.CheckAll(ctx); err != nil {
			c.logger.Error("Scheduled check failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	sched.Start()
	c.logger.Info("SiteChecker started",
		slog.String("schedule", schedule),
		slog.Time("next_run", sched.Entry(entryID).Next))

	<-ctx.Done()
	stopped := sched.Stop()
	<-stopped.Done()
	c.logger.Info("SiteChecker stopped")
	return nil
}
