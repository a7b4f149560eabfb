package mailbox

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/config"
	"github.com/spec-kit/helpdesk-triage/internal/notify"
)

// SMTPSender delivers notifications through the configured SMTP relay.
type SMTPSender struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewSMTPSender constructs the sender.
func NewSMTPSender(cfg config.MailConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, logger: logger}
}

// Send delivers one notification. An error here becomes
// notification_sent=false on the ticket; it is never fatal.
func (s *SMTPSender) Send(ctx context.Context, n notify.Notification) error {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.Address); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(n.To); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(n.Subject)
	msg.SetBodyString(mail.TypeTextPlain, n.Body)

	client, err := mail.NewClient(s.cfg.SMTPHost,
		mail.WithPort(s.cfg.SMTPPort),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Address),
		mail.WithPassword(s.cfg.AppPassword),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	s.logger.Debug("notification delivered", zap.String("to", n.To), zap.String("subject", n.Subject))
	return nil
}
