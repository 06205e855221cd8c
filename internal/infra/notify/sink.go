package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/errs"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/events"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
)

// LogSink writes delivered notifications to the structured log.
type LogSink struct{}

var _ interfaces.NotificationSink = LogSink{}

func (LogSink) Deliver(ctx context.Context, event events.NotificationRequested) error {
	slog.InfoContext(ctx, "delivering notification", "namespace", event.Namespace,
		"title", event.Title, "type", event.Type, "createdAt", event.CreatedAt)
	return nil
}

// WebhookSink posts notifications as JSON. Transport failures and 5xx responses are retryable.
type WebhookSink struct {
	url    string
	client *http.Client
}

var _ interfaces.NotificationSink = (*WebhookSink)(nil)

func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	return &WebhookSink{url: url, client: &http.Client{Timeout: timeout}}
}

type webhookPayload struct {
	Namespace   string    `json:"namespace"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}

func (w *WebhookSink) Deliver(ctx context.Context, event events.NotificationRequested) error {
	body, err := json.Marshal(webhookPayload{
		Namespace:   event.Namespace,
		Title:       event.Title,
		Description: event.Description,
		Type:        string(event.Type),
		CreatedAt:   event.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("error marshalling notification, %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating webhook request, %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return errs.RetryableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return errs.RetryableError{Err: fmt.Errorf("webhook responded with status %d", resp.StatusCode)}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook rejected notification with status %d", resp.StatusCode)
	}

	return nil
}

// Sinks delivers to every sink and joins their errors. Delivery is retried as a whole when any sink
// failed with a retryable error, so sinks may see the same notification twice.
type Sinks []interfaces.NotificationSink

var _ interfaces.NotificationSink = Sinks{}

func (s Sinks) Deliver(ctx context.Context, event events.NotificationRequested) error {
	var (
		failed    []error
		retryable bool
	)
	for _, sink := range s {
		if err := sink.Deliver(ctx, event); err != nil {
			var r errs.RetryableError
			if errors.As(err, &r) {
				retryable = true
			}
			failed = append(failed, err)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	joined := errors.Join(failed...)
	if retryable {
		return errs.RetryableError{Err: joined}
	}
	return joined
}
