// Package notify delivers user-facing notifications. Delivery is fire-and-forget: failures are
// logged and never reach the caller.
package notify

import (
	"context"
	"log/slog"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/dto"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
)

type Presenter interface {
	interfaces.Notifier
	interfaces.ErrorPresenter
}

// Log writes notifications to the structured log.
type Log struct {
	Namespace string
}

var _ Presenter = Log{}

func (l Log) Notify(ctx context.Context, n dto.Notification) {
	level := slog.LevelInfo
	switch n.Type {
	case consts.NotificationWarning:
		level = slog.LevelWarn
	case consts.NotificationError:
		level = slog.LevelError
	}
	slog.Log(ctx, level, "notification", "namespace", l.Namespace,
		"title", n.Title, "description", n.Description, "type", n.Type)
}

func (l Log) Present(ctx context.Context, err error, title string) {
	l.Notify(ctx, ErrorNotification(err, title))
}

// Multi fans out to every presenter in order.
type Multi []Presenter

var _ Presenter = Multi{}

func (m Multi) Notify(ctx context.Context, n dto.Notification) {
	for _, p := range m {
		p.Notify(ctx, n)
	}
}

func (m Multi) Present(ctx context.Context, err error, title string) {
	for _, p := range m {
		p.Present(ctx, err, title)
	}
}

func ErrorNotification(err error, title string) dto.Notification {
	description := "Something went wrong"
	if err != nil && err.Error() != "" {
		description = err.Error()
	}
	return dto.Notification{Title: title, Description: description, Type: consts.NotificationError}
}
