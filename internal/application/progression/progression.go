// Package progression derives the onboarding step to show from independently persisted evidence.
// Nothing here stores a current step: the same evidence always yields the same result.
package progression

import (
	"sort"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/entity"
)

type Evidence struct {
	BasicInfoComplete    bool
	VerificationComplete bool
	// AssignedPlan is nil until a plan assignment succeeded.
	AssignedPlan         *entity.CachedPlanData
	PaymentSucceeded     bool
	PlanSummaryCompleted bool
}

type StepSet map[consts.WorkflowStep]struct{}

func (s StepSet) Has(step consts.WorkflowStep) bool {
	_, ok := s[step]
	return ok
}

// Ordered lists the steps in workflow order.
func (s StepSet) Ordered() []consts.WorkflowStep {
	out := make([]consts.WorkflowStep, 0, len(s))
	for step := range s {
		out = append(out, step)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index() < out[j].Index() })
	return out
}

type Result struct {
	TargetStep     consts.WorkflowStep
	CompletedSteps StepSet
}

// Calculate applies the rules in order, first match wins:
//
//	identity incomplete          -> TENANT_INFO, nothing completed
//	no assigned plan             -> PLAN_SELECTION
//	add-ons never configured     -> ADDON_SELECTION
//	summary acknowledged         -> PAYMENT
//	payment succeeded            -> SUCCESS
//	otherwise                    -> PLAN_SUMMARY
//
// A succeeded payment without an acknowledged summary targets SUCCESS and PLAN_SUMMARY is never
// marked on that path. An acknowledged summary stops at PAYMENT even if payment already succeeded.
func Calculate(ev Evidence) Result {
	completed := StepSet{}

	if !ev.BasicInfoComplete || !ev.VerificationComplete {
		return Result{TargetStep: consts.StepTenantInfo, CompletedSteps: completed}
	}
	completed[consts.StepTenantInfo] = struct{}{}

	if ev.AssignedPlan == nil {
		return Result{TargetStep: consts.StepPlanSelection, CompletedSteps: completed}
	}
	completed[consts.StepPlanSelection] = struct{}{}

	if !ev.AssignedPlan.AddonsConfigured() {
		return Result{TargetStep: consts.StepAddonSelection, CompletedSteps: completed}
	}
	completed[consts.StepAddonSelection] = struct{}{}

	if ev.PlanSummaryCompleted {
		completed[consts.StepPlanSummary] = struct{}{}
		return Result{TargetStep: consts.StepPayment, CompletedSteps: completed}
	}

	if ev.PaymentSucceeded {
		completed[consts.StepPayment] = struct{}{}
		return Result{TargetStep: consts.StepSuccess, CompletedSteps: completed}
	}

	return Result{TargetStep: consts.StepPlanSummary, CompletedSteps: completed}
}
