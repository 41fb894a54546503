package service

import (
	"context"
	"time"

	"registrar/internal/repository"

	"go.uber.org/zap"
)

// SessionJanitor evicts registrations abandoned halfway
type SessionJanitor struct {
	sessions repository.SessionRepository
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewSessionJanitor creates a janitor evicting sessions idle longer than ttl
func NewSessionJanitor(sessions repository.SessionRepository, ttl time.Duration, logger *zap.Logger) *SessionJanitor {
	return &SessionJanitor{
		sessions: sessions,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Sweep removes idle sessions and returns how many were dropped
func (j *SessionJanitor) Sweep() int {
	removed := j.sessions.DeleteIdle(j.now().Add(-j.ttl))
	if removed > 0 {
		j.logger.Info("Evicted idle sessions",
			zap.Int("count", removed),
			zap.Duration("ttl", j.ttl),
		)
	}
	return removed
}

// Run sweeps every interval until ctx is done
func (j *SessionJanitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Session janitor stopped")
			return
		case <-ticker.C:
			j.Sweep()
		}
	}
}
