package service

import (
	"context"
	"sync"
	"time"

	"registrar/internal/domain"
	"registrar/internal/repository"

	"go.uber.org/zap"
)

// Messages holds the texts sent to the user at each step
type Messages struct {
	Welcome    string
	AskContact string
	Success    string
	Failure    string
	Cancelled  string
}

// Reply is the outcome of one inbound message: text to send (empty means
// stay silent) and the state the user's registration ended up in
type Reply struct {
	Text  string
	State domain.State
}

// ConversationService drives the two-question registration form
type ConversationService struct {
	sessions     repository.SessionRepository
	writer       repository.RegistrationRepository
	messages     Messages
	writeTimeout time.Duration
	logger       *zap.Logger
	now          func() time.Time

	locksMux sync.Mutex
	locks    map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewConversationService creates a new conversation service.
// A zero writeTimeout leaves the append bounded only by its transport.
func NewConversationService(
	sessions repository.SessionRepository,
	writer repository.RegistrationRepository,
	messages Messages,
	writeTimeout time.Duration,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		sessions:     sessions,
		writer:       writer,
		messages:     messages,
		writeTimeout: writeTimeout,
		logger:       logger,
		now:          time.Now,
		locks:        make(map[int64]*userLock),
	}
}

// Start begins a new registration, discarding any unfinished one
func (s *ConversationService) Start(userID int64) Reply {
	unlock := s.lockUser(userID)
	defer unlock()

	if prev, ok := s.sessions.Get(userID); ok {
		s.logger.Info("Restarting unfinished registration",
			zap.Int64("user_id", userID),
			zap.String("state", string(prev.State)),
		)
	}

	s.sessions.Save(domain.NewSession(userID, s.now()))

	return Reply{Text: s.messages.Welcome, State: domain.StateAwaitingName}
}

// Cancel aborts the user's registration. Without one it does nothing.
func (s *ConversationService) Cancel(userID int64) Reply {
	unlock := s.lockUser(userID)
	defer unlock()

	session, ok := s.sessions.Get(userID)
	if !ok {
		return Reply{State: domain.StateStart}
	}

	s.sessions.Delete(userID)
	if session.State.Terminal() {
		return Reply{State: domain.StateStart}
	}

	s.logger.Info("Registration cancelled", zap.Int64("user_id", userID))

	return Reply{Text: s.messages.Cancelled, State: domain.StateCancelled}
}

// HandleText stores text as the answer to the pending question
func (s *ConversationService) HandleText(ctx context.Context, userID int64, text string) Reply {
	unlock := s.lockUser(userID)
	defer unlock()

	session, ok := s.sessions.Get(userID)
	if !ok {
		return Reply{State: domain.StateStart}
	}

	// A finished session accepts no more input
	if session.State.Terminal() {
		s.sessions.Delete(userID)
		return Reply{State: domain.StateStart}
	}

	switch session.State {
	case domain.StateAwaitingName:
		session.Name = text
		session.State = domain.StateAwaitingContact
		session.UpdatedAt = s.now()
		s.sessions.Save(session)

		return Reply{Text: s.messages.AskContact, State: domain.StateAwaitingContact}

	case domain.StateAwaitingContact:
		session.Contact = text
		session.State = domain.StateDone
		// Removed before writing so the row goes out at most once
		s.sessions.Delete(userID)

		return s.register(ctx, session.Registration())

	default:
		s.logger.Warn("Dropping session in unexpected state",
			zap.Int64("user_id", userID),
			zap.String("state", string(session.State)),
		)
		s.sessions.Delete(userID)
		return Reply{State: domain.StateStart}
	}
}

func (s *ConversationService) register(ctx context.Context, reg domain.Registration) Reply {
	if s.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.writeTimeout)
		defer cancel()
	}

	if err := s.writer.Append(ctx, reg); err != nil {
		s.logger.Error("Failed to save registration",
			zap.Error(err),
			zap.Int64("user_id", reg.UserID),
		)
		return Reply{Text: s.messages.Failure, State: domain.StateDone}
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", reg.UserID),
		zap.String("name", reg.Name),
		zap.String("contact", reg.Contact),
	)
	return Reply{Text: s.messages.Success, State: domain.StateDone}
}

// lockUser serializes handling per user and returns the matching unlock
func (s *ConversationService) lockUser(userID int64) func() {
	s.locksMux.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.locksMux.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		s.locksMux.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.locksMux.Unlock()
	}
}
