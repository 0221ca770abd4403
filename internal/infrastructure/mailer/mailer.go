package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/studyagent/server/internal/config"
)

// Mailer dispatches verification codes. Dispatch happens after the code is
// already persisted, so a send failure never invalidates the stored code.
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, code string) error
}

// New selects the configured implementation.
func New(cfg *config.Config) Mailer {
	if cfg.MailProvider == "mailersend" {
		return NewMailerSend(cfg)
	}
	return NewSMTP(cfg)
}

const verificationSubject = "Email Verification Code"

func verificationHTML(code string) string {
	return fmt.Sprintf(`<div>
	<h2>Email Verification</h2>
	<p>Hello! Your verification code is:</p>
	<div>%s</div>
	<p>If you didn't request this, please ignore this email.</p>
</div>`, code)
}

type smtpMailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

func NewSMTP(cfg *config.Config) Mailer {
	return &smtpMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

func (m *smtpMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.from, to, verificationSubject, verificationHTML(code))
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	// net/smtp has no context support; honor the deadline by racing the send
	// against ctx so callers keep their bounded dispatch window.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
