package domain

import "time"

// State represents the step a registration session is at
type State string

const (
	StateStart           State = "start"
	StateAwaitingName    State = "awaiting_name"
	StateAwaitingContact State = "awaiting_contact"
	StateDone            State = "done"
	StateCancelled       State = "cancelled"
)

// Terminal reports whether no further input is accepted in this state
func (s State) Terminal() bool {
	return s == StateDone || s == StateCancelled
}

// Session holds the answers collected from one user during registration
type Session struct {
	UserID    int64
	State     State
	Name      string
	Contact   string
	UpdatedAt time.Time
}

// NewSession creates a session waiting for the first answer
func NewSession(userID int64, now time.Time) *Session {
	return &Session{
		UserID:    userID,
		State:     StateAwaitingName,
		UpdatedAt: now,
	}
}

// Registration returns the completed form as a row to append
func (s *Session) Registration() Registration {
	return Registration{
		Name:    s.Name,
		Contact: s.Contact,
		UserID:  s.UserID,
	}
}
