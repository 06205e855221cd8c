package query_test

import (
	"context"
	"testing"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/query"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/steps"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/flags"
	"github.com/stretchr/testify/require"
)

func TestGetProgressOnEmptySession(t *testing.T) {
	progress := query.NewGetProgress().Query(context.Background(), flags.NewMemoryStore())

	require.Equal(t, consts.StepTenantInfo, progress.TargetStep)
	require.Empty(t, progress.CompletedSteps)
	require.Empty(t, progress.TrackedSteps)
	require.Equal(t, 0, progress.Progress)
}

func TestGetProgressFollowsPersistedEvidence(t *testing.T) {
	ctx := context.Background()
	store := flags.NewMemoryStore()
	tracker := steps.NewTracker(store)
	require.NoError(t, store.Set(ctx, consts.KeyTenantID, "tenant-001"))
	tracker.MarkStepCompleted(ctx, consts.StepTenantInfo)
	tracker.MarkStepCompleted(ctx, consts.StepEmailVerification)

	progress := query.NewGetProgress().Query(ctx, store)
	require.Equal(t, consts.StepTenantInfo, progress.TargetStep)
	require.Equal(t, "tenant-001", progress.TenantID)

	tracker.MarkStepCompleted(ctx, consts.StepPhoneVerification)
	progress = query.NewGetProgress().Query(ctx, store)
	require.Equal(t, consts.StepPlanSelection, progress.TargetStep)
	require.Equal(t, []consts.WorkflowStep{consts.StepTenantInfo}, progress.CompletedSteps)

	require.NoError(t, store.Set(ctx, consts.KeyCachedPlanData, `{"selectedPlan":{"id":2,"name":"Growth"},"billingCycle":"monthly","branchCount":1}`))
	require.Equal(t, consts.StepAddonSelection, query.NewGetProgress().Query(ctx, store).TargetStep)

	require.NoError(t, store.Set(ctx, consts.KeyCachedPlanData, `{"selectedPlan":{"id":2,"name":"Growth"},"billingCycle":"monthly","branchCount":1,"selectedAddons":[]}`))
	require.Equal(t, consts.StepPlanSummary, query.NewGetProgress().Query(ctx, store).TargetStep)

	require.NoError(t, store.Set(ctx, consts.KeyPaymentStatus, string(consts.PaymentStatusSucceeded)))
	progress = query.NewGetProgress().Query(ctx, store)
	require.Equal(t, consts.StepSuccess, progress.TargetStep)
	require.Contains(t, progress.CompletedSteps, consts.StepPayment)
	require.NotContains(t, progress.CompletedSteps, consts.StepPlanSummary)
}

func TestGetProgressTreatsMalformedCacheAsAbsent(t *testing.T) {
	ctx := context.Background()
	store := flags.NewMemoryStore()
	tracker := steps.NewTracker(store)
	for _, step := range consts.RequiredSteps {
		tracker.MarkStepCompleted(ctx, step)
	}
	require.NoError(t, store.Set(ctx, consts.KeyCachedPlanData, "{oops"))

	require.Equal(t, consts.StepPlanSelection, query.NewGetProgress().Query(ctx, store).TargetStep)
}
