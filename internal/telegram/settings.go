package telegram

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Settings returns bot settings that run handlers in per-sender order on top
// of poller
func Settings(token string, poller tele.Poller, logger *zap.Logger) tele.Settings {
	return tele.Settings{
		Token:       token,
		Poller:      NewSerialPoller(poller),
		Synchronous: true,
		OnError: func(err error, c tele.Context) {
			fields := []zap.Field{zap.Error(err)}
			if c != nil && c.Sender() != nil {
				fields = append(fields, zap.Int64("user_id", c.Sender().ID))
			}
			logger.Error("Bot handler error", fields...)
		},
	}
}
