package worker

import (
	"context"
	"time"

	"church_roster/internal/platform/metrics"

	"github.com/rs/zerolog/log"
)

// Sweeper is a session store that needs expired entries purged by hand.
type Sweeper interface {
	Sweep(ctx context.Context) int
}

// SessionSweeper periodically evicts expired sessions from an in-process
// store. Redis expires keys on its own and needs no sweeper.
type SessionSweeper struct {
	store    Sweeper
	interval time.Duration
	metrics  *metrics.Metrics
}

func NewSessionSweeper(store Sweeper, interval time.Duration, m *metrics.Metrics) *SessionSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionSweeper{store: store, interval: interval, metrics: m}
}

// Start blocks until ctx is cancelled.
func (w *SessionSweeper) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Session sweeper started")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Session sweeper stopping...")
			return
		case <-ticker.C:
			if removed := w.store.Sweep(ctx); removed > 0 {
				log.Debug().Int("removed", removed).Msg("expired sessions swept")
				w.metrics.SessionsSwept(removed)
			}
		}
	}
}
