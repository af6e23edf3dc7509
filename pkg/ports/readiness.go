package ports

import "context"

// Readiness blocks until a previously launched application can accept work.
// Implementations may only approximate this; a fixed delay is the common fallback.
type Readiness interface {
	Wait(ctx context.Context, app string) error
}
