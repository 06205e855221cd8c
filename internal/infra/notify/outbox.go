package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/dto"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/events"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/db/repo"
	dbs "github.com/Builder-Lawyers/tenant-onboarding/pkg/db"
)

// Outbox stores notifications as outbox events; the scheduler delivers them.
type Outbox struct {
	uowFactory *dbs.UOWFactory
	namespace  string
}

var _ Presenter = (*Outbox)(nil)

func NewOutbox(uowFactory *dbs.UOWFactory, namespace string) *Outbox {
	return &Outbox{uowFactory: uowFactory, namespace: namespace}
}

func (o *Outbox) Notify(ctx context.Context, n dto.Notification) {
	if err := o.insert(ctx, n); err != nil {
		slog.Error("failed to enqueue notification", "namespace", o.namespace, "title", n.Title, "err", err)
	}
}

func (o *Outbox) Present(ctx context.Context, err error, title string) {
	o.Notify(ctx, ErrorNotification(err, title))
}

func (o *Outbox) insert(ctx context.Context, n dto.Notification) (err error) {
	uow := o.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return err
	}
	defer uow.Finalize(&err)

	event := events.NotificationRequested{
		Namespace:   o.namespace,
		Title:       n.Title,
		Description: n.Description,
		Type:        n.Type,
		CreatedAt:   time.Now(),
	}
	return repo.NewEventRepo(tx).InsertEvent(ctx, event)
}
