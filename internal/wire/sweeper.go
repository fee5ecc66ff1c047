package wire

import (
	"context"
	"log/slog"
	"time"
)

// sweeper is satisfied by the idempotency cache.
type sweeper interface {
	Sweep() int
}

// runSweeper evicts expired idempotency records every interval until ctx is
// cancelled. Set also sweeps, so this only bounds memory between bursts of
// POSTs.
func runSweeper(ctx context.Context, c sweeper, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				slog.DebugContext(ctx, "sweeper: evicted idempotency records", "count", n)
			}
		}
	}
}
