package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mailersend/mailersend-go"
	"github.com/studyagent/server/internal/config"
)

type mailerSend struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

// NewMailerSend sends via the MailerSend HTTP API.
func NewMailerSend(cfg *config.Config) Mailer {
	return &mailerSend{
		client: mailersend.NewMailersend(cfg.MailerSendAPIKey),
		from: mailersend.From{
			Name:  cfg.MailerSendFromName,
			Email: cfg.MailerSendFrom,
		},
	}
}

func (m *mailerSend) SendVerificationCode(ctx context.Context, to, code string) error {
	if m.from.Email == "" {
		return errors.New("mailersend sender not configured")
	}

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Email: to}})
	msg.SetSubject(verificationSubject)
	msg.SetText("Your verification code is: " + code)
	msg.SetHTML(verificationHTML(code))

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("mailersend: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
