package client

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

var ErrInvalidMail = errors.New("invalid mail")

// Mail is one outgoing message. HTML takes precedence over Text when both are set.
type Mail struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// LogMailer records outgoing mail instead of delivering it.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, mail Mail) error {
	if mail.To == "" || mail.Subject == "" {
		return ErrInvalidMail
	}
	m.logger.Info("mail queued",
		zap.String("from", mail.From),
		zap.String("to", mail.To),
		zap.String("subject", mail.Subject),
		zap.Int("html_bytes", len(mail.HTML)),
		zap.Int("text_bytes", len(mail.Text)))
	return nil
}
