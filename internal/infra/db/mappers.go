package db

import (
	"encoding/json"
	"log/slog"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/events"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/entity"
)

func MapOutboxModelToNotificationRequested(outbox Outbox) events.NotificationRequested {
	var notification events.NotificationRequested
	if err := json.Unmarshal(outbox.Payload, &notification); err != nil {
		slog.Error("error unmarshaling event", "err", err)
		return events.NotificationRequested{}
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = outbox.CreatedAt
	}

	return notification
}

func MapPaymentPlanModelToEntity(plan PaymentPlan) *entity.Plan {
	return &entity.Plan{
		ID:               plan.ID,
		Name:             plan.Name,
		IncludedBranches: plan.IncludedBranches,
		StripePriceID:    plan.StripeID,
	}
}
