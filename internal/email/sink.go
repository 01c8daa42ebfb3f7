package email

import (
	"context"
	"fmt"
	"time"

	"studyfunnel_backend/internal/config"
	"studyfunnel_backend/internal/logger"
	"studyfunnel_backend/internal/webhook"
)

// Sink mails the participant directly for every message with a known template
type Sink struct {
	mailer    Mailer
	templates *TemplateManager
	from      string
	fromName  string
}

func NewSink(mailer Mailer, templates *TemplateManager, cfg config.EmailConfig) *Sink {
	return &Sink{
		mailer:    mailer,
		templates: templates,
		from:      cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (s *Sink) Send(ctx context.Context, msg webhook.Message) error {
	if !s.templates.Has(msg.Template) {
		logger.CtxDebug(ctx, "no mail template, skipping", "template", msg.Template)
		return nil
	}

	start := time.Now()
	err := s.send(msg)
	logger.SinkLog("email", msg.Template, msg.NotificationID, time.Since(start), err)
	return err
}

func (s *Sink) send(msg webhook.Message) error {
	data := TemplateData{}
	for k, v := range msg.Fields {
		data[k] = v
	}
	data["to_email"] = msg.ToEmail
	data["from_name"] = s.fromName

	body, err := s.templates.Render(msg.Template, data)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", msg.Template, err)
	}

	return s.mailer.Send(&Email{
		From:     s.from,
		FromName: s.fromName,
		To:       []string{msg.ToEmail},
		Subject:  s.templates.Subject(msg.Template),
		HTMLBody: body,
	})
}
