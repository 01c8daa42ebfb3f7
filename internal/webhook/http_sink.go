package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"studyfunnel_backend/internal/config"
	"studyfunnel_backend/internal/logger"
)

// HTTPSink posts messages as JSON to the automation flow's trigger URL
type HTTPSink struct {
	url    string
	client *http.Client
}

func NewHTTPSink(cfg config.WebhookConfig) *HTTPSink {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSink{
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSink) Send(ctx context.Context, msg Message) error {
	start := time.Now()
	err := s.post(ctx, msg)
	logger.SinkLog("webhook", msg.Template, msg.NotificationID, time.Since(start), err)
	return err
}

func (s *HTTPSink) post(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}
