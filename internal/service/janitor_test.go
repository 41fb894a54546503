package service

import (
	"context"
	"testing"
	"time"

	"registrar/internal/domain"
	"registrar/internal/repository/memory"
	"registrar/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSessionJanitor_Sweep(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	mockRepo := new(testutil.MockSessionRepository)
	mockRepo.On("DeleteIdle", now.Add(-time.Hour)).Return(3)

	janitor := NewSessionJanitor(mockRepo, time.Hour, testutil.NewTestLogger())
	janitor.now = func() time.Time { return now }

	removed := janitor.Sweep()

	assert.Equal(t, 3, removed)
	mockRepo.AssertExpectations(t)
}

func TestSessionJanitor_SweepKeepsFreshSessions(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	sessions := memory.NewSessionRepo()
	sessions.Save(domain.NewSession(1, now.Add(-2*time.Hour)))
	sessions.Save(testutil.NewTestSession(2, domain.StateAwaitingContact, "Acme"))
	sessions.Save(domain.NewSession(3, now.Add(-10*time.Minute)))

	janitor := NewSessionJanitor(sessions, time.Hour, testutil.NewTestLogger())
	janitor.now = func() time.Time { return now }

	assert.Equal(t, 1, janitor.Sweep())
	_, ok := sessions.Get(1)
	assert.False(t, ok)
	_, ok = sessions.Get(3)
	assert.True(t, ok)
}

func TestSessionJanitor_RunStopsOnCancel(t *testing.T) {
	mockRepo := new(testutil.MockSessionRepository)
	mockRepo.On("DeleteIdle", mock.AnythingOfType("time.Time")).Return(0).Maybe()

	janitor := NewSessionJanitor(mockRepo, time.Hour, testutil.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		janitor.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
