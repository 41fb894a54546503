package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	if c.Sender() == nil {
		return nil
	}
	userID := c.Sender().ID

	h.logger.Info("User started registration",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	return h.reply(c, h.conversation.Start(userID))
}

// handleCancel handles /cancel command
func (h *Handler) handleCancel(c tele.Context) error {
	if c.Sender() == nil {
		return nil
	}
	return h.reply(c, h.conversation.Cancel(c.Sender().ID))
}

// handleText treats plain text as the answer to the pending question
func (h *Handler) handleText(c tele.Context) error {
	if c.Sender() == nil {
		return nil
	}

	// Commands without a handler of their own are not answers
	if isCommand(c.Message()) {
		h.logger.Debug("Ignoring unknown command",
			zap.Int64("user_id", c.Sender().ID),
			zap.String("text", c.Text()),
		)
		return nil
	}

	return h.reply(c, h.conversation.HandleText(h.ctx, c.Sender().ID, c.Text()))
}
