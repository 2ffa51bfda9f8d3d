package repository

import (
	"context"
	"time"
)

// withQueryTimeout bounds a single store round trip. A non-positive d leaves
// only the caller's deadline in effect.
func withQueryTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
