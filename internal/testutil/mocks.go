package testutil

import (
	"context"
	"time"

	"registrar/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockRegistrationRepository is a mock for RegistrationRepository
type MockRegistrationRepository struct {
	mock.Mock
}

func (m *MockRegistrationRepository) Append(ctx context.Context, reg domain.Registration) error {
	args := m.Called(ctx, reg)
	if fn, ok := args.Get(0).(func(context.Context, domain.Registration) error); ok {
		return fn(ctx, reg)
	}
	return args.Error(0)
}

// MockSessionRepository is a mock for SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Get(userID int64) (*domain.Session, bool) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.Session), args.Bool(1)
}

func (m *MockSessionRepository) Save(session *domain.Session) {
	m.Called(session)
}

func (m *MockSessionRepository) Delete(userID int64) {
	m.Called(userID)
}

func (m *MockSessionRepository) DeleteIdle(before time.Time) int {
	args := m.Called(before)
	return args.Int(0)
}
