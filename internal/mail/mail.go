package mail

import (
	"context"

	"go.uber.org/zap"

	"shop-api/internal/logging"
)

// Message is a rendered mail. HTML is optional; Text is always sent.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type logSender struct {
	logger *zap.Logger
}

// NewLog returns a Sender that only logs outgoing mail. Used when no SMTP
// host is configured.
func NewLog(logger *zap.Logger) Sender {
	return &logSender{logger: logging.OrNop(logger)}
}

func (s *logSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("mail not sent, smtp disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Text))
	return nil
}
