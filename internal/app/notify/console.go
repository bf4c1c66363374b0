// internal/app/notify/console.go
package notify

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleSender logs messages instead of sending them. Used in development
// when no SendGrid key or Twilio account is configured. Credentials are NOT
// logged; only the recipient and subject are.
type ConsoleSender struct {
	log *zap.Logger
}

var (
	_ EmailSender = (*ConsoleSender)(nil)
	_ SMSSender   = (*ConsoleSender)(nil)
)

func NewConsoleSender(log *zap.Logger) *ConsoleSender {
	return &ConsoleSender{log: log}
}

func (s *ConsoleSender) SendEmail(_ context.Context, msg Email) error {
	s.log.Info("console email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

func (s *ConsoleSender) SendSMS(_ context.Context, msg SMS) error {
	s.log.Info("console sms", zap.String("to", msg.To))
	return nil
}
