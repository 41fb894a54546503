package memory

import (
	"sync"
	"time"

	"registrar/internal/domain"
)

// SessionRepo implements repository.SessionRepository in process memory
type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[int64]domain.Session
}

// NewSessionRepo creates an empty session table
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[int64]domain.Session)}
}

// Get returns a copy of the user's session
func (r *SessionRepo) Get(userID int64) (*domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[userID]
	if !ok {
		return nil, false
	}
	return &s, true
}

// Save stores the session, replacing any previous one for the same user
func (r *SessionRepo) Save(session *domain.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.UserID] = *session
}

// Delete discards the user's session
func (r *SessionRepo) Delete(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// DeleteIdle removes sessions not updated since before and returns how many
func (r *SessionRepo) DeleteIdle(before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.UpdatedAt.Before(before) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions
func (r *SessionRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
