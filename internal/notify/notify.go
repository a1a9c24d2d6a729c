// Package notify delivers broadcasts to the messaging platform.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Log records the broadcast instead of sending it. Used when no webhook is
// configured.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Send(ctx context.Context, recipients []string, template string, payload map[string]any) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.InfoContext(ctx, "broadcast",
		"template", template,
		"recipients", len(recipients),
		"payload", payload,
	)

	return nil
}

// Webhook posts each broadcast as one JSON document to a relay that owns the
// platform credentials.
type Webhook struct {
	url    string
	token  string
	client *http.Client
}

type WebhookOption func(*Webhook)

// WithBearerToken authenticates requests to the relay.
func WithBearerToken(token string) WebhookOption {
	return func(w *Webhook) { w.token = token }
}

func WithHTTPClient(c *http.Client) WebhookOption {
	return func(w *Webhook) { w.client = c }
}

func NewWebhook(url string, opts ...WebhookOption) *Webhook {
	w := &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

type webhookRequest struct {
	Recipients []string       `json:"recipients"`
	Template   string         `json:"template"`
	Payload    map[string]any `json:"payload,omitempty"`
}

func (w *Webhook) Send(ctx context.Context, recipients []string, template string, payload map[string]any) error {
	body, err := json.Marshal(webhookRequest{Recipients: recipients, Template: template, Payload: payload})
	if err != nil {
		return fmt.Errorf("encoding broadcast: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting broadcast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("posting broadcast: relay returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	return nil
}
