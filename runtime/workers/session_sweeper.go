package workers

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper is anything that can evict expired entries and report how
// many went away. The in-memory session store implements it; the Redis
// store does not need sweeping (TTL handles expiry server side).
type Sweeper interface {
	Sweep() int
}

// SessionSweeper periodically evicts expired sessions from an
// in-memory store.
type SessionSweeper struct {
	log      *slog.Logger
	store    Sweeper
	interval time.Duration
}

func NewSessionSweeper(log *slog.Logger, store Sweeper, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{log: log, store: store, interval: interval}
}

func (w *SessionSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if evicted := w.store.Sweep(); evicted > 0 {
				w.log.Debug("expired sessions evicted", "count", evicted)
			}
		case <-ctx.Done():
			w.log.Debug("Context done, stopping session sweeper")
			return nil
		}
	}
}
