package testutil

import (
	"time"

	"registrar/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestSession creates a session in the given state
func NewTestSession(userID int64, state domain.State, name string) *domain.Session {
	return &domain.Session{
		UserID:    userID,
		State:     state,
		Name:      name,
		UpdatedAt: time.Now(),
	}
}
