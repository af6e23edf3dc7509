package companion

import (
	"context"
	"time"
)

// FixedDelay waits a fixed time for a launched application. It is a heuristic:
// nothing guarantees the application is ready when the delay ends.
// Cancelling the context ends the wait early with the context error.
type FixedDelay time.Duration

// Wait implements ports.Readiness.
func (d FixedDelay) Wait(ctx context.Context, app string) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(d))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
