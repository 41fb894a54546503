package middleware

import (
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// LoggingMiddleware logs every handled update and its outcome
func LoggingMiddleware(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			started := time.Now()

			fields := []zap.Field{}
			if sender := c.Sender(); sender != nil {
				fields = append(fields, zap.Int64("user_id", sender.ID))
			}
			if m := c.Message(); m != nil {
				fields = append(fields,
					zap.Int("message_id", m.ID),
					zap.Int("text_len", len(m.Text)),
				)
			}

			err := next(c)

			fields = append(fields, zap.Duration("took", time.Since(started)))
			if err != nil {
				logger.Warn("Update handled with error", append(fields, zap.Error(err))...)
				return err
			}

			logger.Debug("Update handled", fields...)
			return nil
		}
	}
}
