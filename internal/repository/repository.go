package repository

import (
	"context"
	"time"

	"registrar/internal/domain"
)

// SessionRepository stores in-progress registration sessions keyed by user
type SessionRepository interface {
	Get(userID int64) (*domain.Session, bool)
	Save(session *domain.Session)
	Delete(userID int64)
	DeleteIdle(before time.Time) int
}

// RegistrationRepository appends completed registrations to external storage
type RegistrationRepository interface {
	Append(ctx context.Context, reg domain.Registration) error
}
