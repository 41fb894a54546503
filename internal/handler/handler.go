package handler

import (
	"context"

	"registrar/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler connects bot updates to the registration conversation
type Handler struct {
	ctx          context.Context
	bot          *tele.Bot
	conversation *service.ConversationService
	logger       *zap.Logger
}

// NewHandler creates a new handler instance. Writes started by handlers are
// cancelled when ctx is done.
func NewHandler(
	ctx context.Context,
	bot *tele.Bot,
	conversation *service.ConversationService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		ctx:          ctx,
		bot:          bot,
		conversation: conversation,
		logger:       logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/cancel", h.handleCancel)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)
}

// reply sends the conversation's answer, if it has one
func (h *Handler) reply(c tele.Context, r service.Reply) error {
	if r.Text == "" {
		return nil
	}
	if err := c.Send(r.Text); err != nil {
		h.logger.Error("Failed to send reply",
			zap.Error(err),
			zap.Int64("user_id", c.Sender().ID),
			zap.String("state", string(r.State)),
		)
		return err
	}
	return nil
}

// isCommand reports whether the message opens with a bot command entity
func isCommand(m *tele.Message) bool {
	if m == nil {
		return false
	}
	for _, e := range m.Entities {
		if e.Type == tele.EntityCommand && e.Offset == 0 {
			return true
		}
	}
	return false
}
