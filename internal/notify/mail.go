package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/ciprianb/jenkins-log-archiver/internal/config"
)

// Mailer sends notifications over SMTP.
type Mailer struct {
	cfg config.NotifyConfig
}

func NewMailer(cfg config.NotifyConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	mm := mail.NewMsg()
	if err := mm.From(m.cfg.From); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := mm.To(m.cfg.To); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextPlain, msg.Body)

	opts := []mail.Option{mail.WithPort(m.cfg.SMTPPort)}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}
