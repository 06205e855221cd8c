package query

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/dto"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/progression"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/steps"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/entity"
)

type GetProgress struct{}

func NewGetProgress() *GetProgress {
	return &GetProgress{}
}

// Query collects the persisted evidence of a session and resolves the step to display.
// Unreadable evidence counts as absent.
func (q *GetProgress) Query(ctx context.Context, store interfaces.FlagStore) *dto.ProgressResponse {
	evidence := CollectEvidence(ctx, store)
	result := progression.Calculate(evidence)
	tracker := steps.NewTracker(store)

	tenantID, _, err := store.Get(ctx, consts.KeyTenantID)
	if err != nil {
		slog.Warn("failed to read tenant id", "err", err)
	}

	return &dto.ProgressResponse{
		TargetStep:     result.TargetStep,
		CompletedSteps: result.CompletedSteps.Ordered(),
		TrackedSteps:   tracker.CompletedSteps(ctx),
		Progress:       tracker.CompletionProgress(ctx),
		TenantID:       tenantID,
	}
}

func CollectEvidence(ctx context.Context, store interfaces.FlagStore) progression.Evidence {
	tracker := steps.NewTracker(store)
	return progression.Evidence{
		BasicInfoComplete: tracker.IsStepCompleted(ctx, consts.StepTenantInfo),
		VerificationComplete: tracker.IsStepCompleted(ctx, consts.StepEmailVerification) &&
			tracker.IsStepCompleted(ctx, consts.StepPhoneVerification),
		AssignedPlan:         cachedPlan(ctx, store),
		PaymentSucceeded:     paymentSucceeded(ctx, store),
		PlanSummaryCompleted: tracker.IsStepCompleted(ctx, consts.StepPlanSummary),
	}
}

func cachedPlan(ctx context.Context, store interfaces.FlagStore) *entity.CachedPlanData {
	raw, ok, err := store.Get(ctx, consts.KeyCachedPlanData)
	if err != nil {
		slog.Warn("failed to read cached plan", "err", err)
		return nil
	}
	if !ok {
		return nil
	}
	var cached entity.CachedPlanData
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		slog.Warn("cached plan is malformed", "err", err)
		return nil
	}
	return &cached
}

func paymentSucceeded(ctx context.Context, store interfaces.FlagStore) bool {
	status, ok, err := store.Get(ctx, consts.KeyPaymentStatus)
	if err != nil {
		slog.Warn("failed to read payment status", "err", err)
		return false
	}
	return ok && consts.PaymentStatus(status) == consts.PaymentStatusSucceeded
}
