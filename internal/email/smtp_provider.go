package email

import (
	"fmt"

	"studyfunnel_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// Mailer sends a rendered message
type Mailer interface {
	Send(email *Email) error
}

// SMTPMailer sends through an SMTP relay
type SMTPMailer struct {
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

func (m *SMTPMailer) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	msg := gomail.NewMessage()
	if email.FromName != "" {
		msg.SetAddressHeader("From", email.From, email.FromName)
	} else {
		msg.SetHeader("From", email.From)
	}
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/html", email.HTMLBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
