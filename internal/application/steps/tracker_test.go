package steps_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/steps"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenStore wraps a working store and fails the configured operations.
type brokenStore struct {
	*flags.Store
	failGet    bool
	failSet    map[string]bool
	failRemove bool
}

var errStorage = errors.New("storage unavailable")

func (b *brokenStore) Get(ctx context.Context, key string) (string, bool, error) {
	if b.failGet {
		return "", false, errStorage
	}
	return b.Store.Get(ctx, key)
}

func (b *brokenStore) Set(ctx context.Context, key, value string) error {
	if b.failSet[key] {
		return errStorage
	}
	return b.Store.Set(ctx, key, value)
}

func (b *brokenStore) Remove(ctx context.Context, key string) error {
	if b.failRemove {
		return errStorage
	}
	return b.Store.Remove(ctx, key)
}

func TestMarkStepCompletedSetsFlagAndList(t *testing.T) {
	ctx := context.Background()
	tracker := steps.NewTracker(flags.NewMemoryStore())

	tracker.MarkStepCompleted(ctx, consts.StepTenantInfo)

	require.True(t, tracker.IsStepCompleted(ctx, consts.StepTenantInfo))
	require.Contains(t, tracker.CompletedSteps(ctx), consts.StepTenantInfo)
}

func TestMarkStepCompletedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	tracker := steps.NewTracker(flags.NewMemoryStore())

	tracker.MarkStepCompleted(ctx, consts.StepTenantInfo)
	tracker.MarkStepCompleted(ctx, consts.StepEmailVerification)
	tracker.MarkStepCompleted(ctx, consts.StepTenantInfo)

	require.Equal(t, []consts.WorkflowStep{consts.StepTenantInfo, consts.StepEmailVerification}, tracker.CompletedSteps(ctx))
}

func TestMarkStepCompletedIgnoresTerminalStep(t *testing.T) {
	ctx := context.Background()
	store := flags.NewMemoryStore()
	tracker := steps.NewTracker(store)

	tracker.MarkStepCompleted(ctx, consts.StepSuccess)

	require.False(t, tracker.IsStepCompleted(ctx, consts.StepSuccess))
	require.Empty(t, tracker.CompletedSteps(ctx))
}

func TestIsStepCompletedRequiresLiteralTrue(t *testing.T) {
	ctx := context.Background()
	store := flags.NewMemoryStore()
	tracker := steps.NewTracker(store)

	for _, value := range []string{"false", "", "TRUE", "1", " true"} {
		require.NoError(t, store.Set(ctx, consts.StepKey(consts.StepPayment), value))
		assert.False(t, tracker.IsStepCompleted(ctx, consts.StepPayment), "value %q", value)
	}
	require.False(t, tracker.IsStepCompleted(ctx, consts.StepPlanSummary))
}

func TestClearStepCompletionRemovesFlagAndListEntry(t *testing.T) {
	ctx := context.Background()
	tracker := steps.NewTracker(flags.NewMemoryStore())
	tracker.MarkStepCompleted(ctx, consts.StepTenantInfo)
	tracker.MarkStepCompleted(ctx, consts.StepPlanSelection)

	tracker.ClearStepCompletion(ctx, consts.StepTenantInfo)

	require.False(t, tracker.IsStepCompleted(ctx, consts.StepTenantInfo))
	require.Equal(t, []consts.WorkflowStep{consts.StepPlanSelection}, tracker.CompletedSteps(ctx))
}

func TestClearAllStepCompletions(t *testing.T) {
	ctx := context.Background()
	tracker := steps.NewTracker(flags.NewMemoryStore())
	for _, step := range consts.TrackableSteps {
		tracker.MarkStepCompleted(ctx, step)
	}

	tracker.ClearAllStepCompletions(ctx)

	for _, step := range consts.TrackableSteps {
		require.False(t, tracker.IsStepCompleted(ctx, step))
	}
	require.Empty(t, tracker.CompletedSteps(ctx))
	require.Equal(t, 0, tracker.CompletionProgress(ctx))
}

func TestCompletionProgress(t *testing.T) {
	ctx := context.Background()
	tracker := steps.NewTracker(flags.NewMemoryStore())
	require.Equal(t, 0, tracker.CompletionProgress(ctx))

	tracker.MarkStepCompleted(ctx, consts.StepTenantInfo)
	// 1 of 7
	require.Equal(t, 14, tracker.CompletionProgress(ctx))

	tracker.MarkStepCompleted(ctx, consts.StepEmailVerification)
	tracker.MarkStepCompleted(ctx, consts.StepPhoneVerification)
	tracker.MarkStepCompleted(ctx, consts.StepPlanSelection)
	// 4 of 7
	require.Equal(t, 57, tracker.CompletionProgress(ctx))

	for _, step := range consts.TrackableSteps {
		tracker.MarkStepCompleted(ctx, step)
	}
	require.Equal(t, 100, tracker.CompletionProgress(ctx))
}

func TestAreAllStepsCompletedUsesRequiredFlagsOnly(t *testing.T) {
	ctx := context.Background()
	store := flags.NewMemoryStore()
	tracker := steps.NewTracker(store)

	tracker.MarkStepCompleted(ctx, consts.StepTenantInfo)
	tracker.MarkStepCompleted(ctx, consts.StepEmailVerification)
	require.False(t, tracker.AreAllStepsCompleted(ctx))

	// flag set directly without touching the list still counts
	require.NoError(t, store.Set(ctx, consts.StepKey(consts.StepPhoneVerification), "true"))
	require.True(t, tracker.AreAllStepsCompleted(ctx))
}

func TestCompletedStepsToleratesMalformedList(t *testing.T) {
	ctx := context.Background()
	store := flags.NewMemoryStore()
	tracker := steps.NewTracker(store)
	require.NoError(t, store.Set(ctx, consts.KeyCompletedSteps, "{not json"))

	require.Empty(t, tracker.CompletedSteps(ctx))
	require.Equal(t, 0, tracker.CompletionProgress(ctx))
}

func TestMarkStepCompletedRebuildsMalformedListFromFlags(t *testing.T) {
	ctx := context.Background()
	store := flags.NewMemoryStore()
	tracker := steps.NewTracker(store)
	tracker.MarkStepCompleted(ctx, consts.StepTenantInfo)
	require.NoError(t, store.Set(ctx, consts.KeyCompletedSteps, "[broken"))

	tracker.MarkStepCompleted(ctx, consts.StepEmailVerification)

	require.Equal(t, []consts.WorkflowStep{consts.StepTenantInfo, consts.StepEmailVerification}, tracker.CompletedSteps(ctx))
}

func TestTrackerDegradesOnStorageErrors(t *testing.T) {
	ctx := context.Background()
	store := &brokenStore{Store: flags.NewMemoryStore(), failGet: true, failRemove: true}
	tracker := steps.NewTracker(store)

	require.NotPanics(t, func() {
		tracker.MarkStepCompleted(ctx, consts.StepTenantInfo)
		tracker.ClearStepCompletion(ctx, consts.StepTenantInfo)
		tracker.ClearAllStepCompletions(ctx)
	})
	require.False(t, tracker.IsStepCompleted(ctx, consts.StepTenantInfo))
	require.Empty(t, tracker.CompletedSteps(ctx))
	require.Equal(t, 0, tracker.CompletionProgress(ctx))
	require.False(t, tracker.AreAllStepsCompleted(ctx))
}

func TestMarkStepCompletedRollsBackFlagWhenListWriteFails(t *testing.T) {
	ctx := context.Background()
	store := &brokenStore{Store: flags.NewMemoryStore(), failSet: map[string]bool{consts.KeyCompletedSteps: true}}
	tracker := steps.NewTracker(store)

	tracker.MarkStepCompleted(ctx, consts.StepTenantInfo)

	require.False(t, tracker.IsStepCompleted(ctx, consts.StepTenantInfo))
	require.Empty(t, tracker.CompletedSteps(ctx))
}

func TestMarkStepCompletedRepairsMalformedListForSameStep(t *testing.T) {
	ctx := context.Background()
	store := flags.NewMemoryStore()
	tracker := steps.NewTracker(store)
	require.NoError(t, store.Set(ctx, consts.KeyCompletedSteps, "[broken"))

	tracker.MarkStepCompleted(ctx, consts.StepTenantInfo)

	require.True(t, tracker.IsStepCompleted(ctx, consts.StepTenantInfo))
	require.Equal(t, []consts.WorkflowStep{consts.StepTenantInfo}, tracker.CompletedSteps(ctx))
	require.Equal(t, 14, tracker.CompletionProgress(ctx))
	raw, ok, err := store.Get(ctx, consts.KeyCompletedSteps)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `["TENANT_INFO"]`, raw)
}

func TestClearStepCompletionRepairsMalformedList(t *testing.T) {
	ctx := context.Background()
	store := flags.NewMemoryStore()
	tracker := steps.NewTracker(store)
	tracker.MarkStepCompleted(ctx, consts.StepTenantInfo)
	tracker.MarkStepCompleted(ctx, consts.StepEmailVerification)
	require.NoError(t, store.Set(ctx, consts.KeyCompletedSteps, "[broken"))

	tracker.ClearStepCompletion(ctx, consts.StepTenantInfo)

	require.False(t, tracker.IsStepCompleted(ctx, consts.StepTenantInfo))
	require.Equal(t, []consts.WorkflowStep{consts.StepEmailVerification}, tracker.CompletedSteps(ctx))
}

func TestClearStepCompletionRestoresFlagWhenListWriteFails(t *testing.T) {
	ctx := context.Background()
	store := &brokenStore{Store: flags.NewMemoryStore(), failSet: map[string]bool{}}
	tracker := steps.NewTracker(store)
	tracker.MarkStepCompleted(ctx, consts.StepTenantInfo)
	store.failSet[consts.KeyCompletedSteps] = true

	tracker.ClearStepCompletion(ctx, consts.StepTenantInfo)

	require.True(t, tracker.IsStepCompleted(ctx, consts.StepTenantInfo))
	require.Equal(t, []consts.WorkflowStep{consts.StepTenantInfo}, tracker.CompletedSteps(ctx))
}

func TestClearStepCompletionOfUnflaggedStepLeavesItUnflagged(t *testing.T) {
	ctx := context.Background()
	store := &brokenStore{Store: flags.NewMemoryStore(), failSet: map[string]bool{consts.KeyCompletedSteps: true}}
	tracker := steps.NewTracker(store)

	tracker.ClearStepCompletion(ctx, consts.StepPayment)

	require.False(t, tracker.IsStepCompleted(ctx, consts.StepPayment))
}
