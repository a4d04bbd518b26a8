// AngelaMos | 2026
// mailer.go

package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/angelamos/marketplace-api/internal/config"
)

// Mailer is the outbound delivery boundary. A failed send after a committed
// database write is a recognized partial-failure state; callers surface it
// distinctly instead of rolling back.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

func New(cfg config.MailConfig) Mailer {
	if cfg.Driver == "smtp" {
		return &SMTPMailer{cfg: cfg}
	}
	return &LogMailer{from: cfg.From}
}

type SMTPMailer struct {
	cfg config.MailConfig
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}

// LogMailer writes messages to the log instead of delivering them.
// Default in development so token flows are exercisable without SMTP.
type LogMailer struct {
	from string
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	slog.InfoContext(ctx, "mail delivery (log driver)",
		"from", m.from,
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}
