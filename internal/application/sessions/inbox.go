package sessions

import (
	"context"
	"sync"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/dto"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
)

const inboxLimit = 20

// Inbox buffers the latest notifications of a session until a client drains them.
type Inbox struct {
	mu    sync.Mutex
	items []dto.Notification
}

var _ Presenter = (*Inbox)(nil)

func (i *Inbox) Notify(_ context.Context, n dto.Notification) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.items = append(i.items, n)
	if len(i.items) > inboxLimit {
		i.items = i.items[len(i.items)-inboxLimit:]
	}
}

func (i *Inbox) Present(ctx context.Context, err error, title string) {
	description := "Something went wrong"
	if err != nil && err.Error() != "" {
		description = err.Error()
	}
	i.Notify(ctx, dto.Notification{Title: title, Description: description, Type: consts.NotificationError})
}

// Drain returns buffered notifications oldest first and empties the inbox.
func (i *Inbox) Drain() []dto.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.items
	i.items = nil
	if out == nil {
		return []dto.Notification{}
	}
	return out
}

type tee []Presenter

func (t tee) Notify(ctx context.Context, n dto.Notification) {
	for _, p := range t {
		p.Notify(ctx, n)
	}
}

func (t tee) Present(ctx context.Context, err error, title string) {
	for _, p := range t {
		p.Present(ctx, err, title)
	}
}
