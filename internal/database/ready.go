package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	"github.com/jmoiron/sqlx"
)

// WaitReady pings the database until it answers or attempts run out.
// It is only meant for process start-up, when the database may still be booting.
func WaitReady(ctx context.Context, db *sqlx.DB, attempts uint, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if attempts == 0 {
		attempts = 1
	}
	if err := retry.Do(
		func() error {
			return db.PingContext(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("database is not ready", "attempt", n+1, "error", err)
		}),
	); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}
