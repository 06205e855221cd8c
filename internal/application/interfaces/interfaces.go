package interfaces

import (
	"context"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/dto"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/events"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/entity"
	shared "github.com/Builder-Lawyers/tenant-onboarding/pkg/interfaces"
)

// FlagStore is the persisted key-value store of one onboarding session.
// Get reports ok=false for keys that were never written.
type FlagStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type PlanAssigner interface {
	AssignPlan(ctx context.Context, req dto.AssignPlanRequest) (*dto.AssignPlanResponse, error)
}

type SchemaValidator interface {
	Validate(payload any, schema string, label string) dto.ValidationResult
}

type Notifier interface {
	Notify(ctx context.Context, n dto.Notification)
}

type ErrorPresenter interface {
	Present(ctx context.Context, err error, title string)
}

type PlanRules interface {
	ValidatePlanSelection(plan *entity.Plan) dto.RuleResult
	ValidateBranchCount(count, includedCount int) dto.RuleResult
}

type PlanCatalog interface {
	GetPlan(ctx context.Context, planID int64) (*entity.Plan, error)
}

type EventRepo interface {
	InsertEvent(ctx context.Context, event shared.Event) error
}

// NotificationSink delivers a queued notification outside the process.
type NotificationSink interface {
	Deliver(ctx context.Context, event events.NotificationRequested) error
}
