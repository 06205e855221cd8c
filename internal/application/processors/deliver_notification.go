package processors

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/events"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
	shared "github.com/Builder-Lawyers/tenant-onboarding/pkg/interfaces"
)

type DeliverNotification struct {
	sink interfaces.NotificationSink
}

func NewDeliverNotification(sink interfaces.NotificationSink) *DeliverNotification {
	return &DeliverNotification{sink: sink}
}

// Handle never opens a transaction; the poller records the outcome in its own.
func (c *DeliverNotification) Handle(ctx context.Context, event events.NotificationRequested) (shared.UoW, error) {
	if event.Namespace == "" {
		return nil, fmt.Errorf("notification %q has no session namespace", event.Title)
	}

	if err := c.sink.Deliver(ctx, event); err != nil {
		return nil, err
	}

	slog.Info("Notification delivered", "namespace", event.Namespace, "title", event.Title)
	return nil, nil
}
