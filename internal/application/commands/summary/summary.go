package summary

import (
	"context"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/errs"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/query"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/steps"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
)

// Acknowledge marks the plan summary as reviewed. It requires an assigned plan with configured add-ons.
func Acknowledge(ctx context.Context, store interfaces.FlagStore) error {
	evidence := query.CollectEvidence(ctx, store)
	if evidence.AssignedPlan == nil || !evidence.AssignedPlan.AddonsConfigured() {
		return errs.PreconditionError{Message: "plan and add-ons must be selected before the summary"}
	}

	steps.NewTracker(store).MarkStepCompleted(ctx, consts.StepPlanSummary)
	return nil
}
