package core

// sweeper.go expires idle table sessions in the background.
//
// Each browser tab keeps a session (state, pending search timer, SSE
// listeners) in memory. The sweeper runs on a ticker and closes sessions
// that have been idle longer than the session TTL, which also cancels their
// debounce timers. It is context-aware for graceful shutdown and never
// fails the application.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is used when StartSessionSweeper gets a non-positive interval.
const DefaultSweepInterval = time.Minute

// StartSessionSweeper periodically expires idle sessions until ctx is
// cancelled, then closes every remaining session. It always returns nil so
// it can run directly under an errgroup.
func (s *Service) StartSessionSweeper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	slog.Info("session sweeper started",
		"interval", interval.String(),
		"ttl", s.opts.SessionTTL.String(),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Close()
			slog.Info("session sweeper stopped")
			return nil
		case <-ticker.C:
			s.runSweep()
		}
	}
}

// runSweep performs one expiry pass.
func (s *Service) runSweep() {
	start := time.Now()
	expired := s.ExpireIdle()

	if expired > 0 {
		slog.Info("expired idle sessions",
			"sessions_expired", expired,
			"sessions_live", s.SessionCount(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return
	}
	slog.Debug("session sweep completed", "sessions_live", s.SessionCount())
}
