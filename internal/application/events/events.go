package events

import (
	"time"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
)

type NotificationRequested struct {
	Namespace   string
	Title       string
	Description string
	Type        consts.NotificationType
	CreatedAt   time.Time
}

func (e NotificationRequested) GetType() string {
	return "NotificationRequested"
}
