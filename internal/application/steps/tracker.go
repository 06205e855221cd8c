// Package steps records completion of onboarding steps in a FlagStore.
//
// Every step has a boolean flag under consts.StepKey(step) and the completed steps are mirrored,
// in completion order, in a JSON list under consts.KeyCompletedSteps. Mutations write through
// both so a step is in the list iff its flag is "true".
//
// The Tracker is best-effort: storage failures are logged and each operation degrades to the
// default value of its return type (false, nil list, 0) instead of returning an error.
package steps

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
)

type Tracker struct {
	store interfaces.FlagStore
}

func NewTracker(store interfaces.FlagStore) *Tracker {
	return &Tracker{store: store}
}

// MarkStepCompleted sets the step flag and appends the step to the completed list if absent.
// If the list cannot be written the flag is rolled back.
func (t *Tracker) MarkStepCompleted(ctx context.Context, step consts.WorkflowStep) {
	if !step.Trackable() {
		slog.Warn("step is not trackable", "step", step)
		return
	}

	if err := t.store.Set(ctx, consts.StepKey(step), consts.FlagTrue); err != nil {
		slog.Warn("failed to mark step completed", "step", step, "err", err)
		return
	}

	completed, rebuilt := t.loadForUpdate(ctx)
	if contains(completed, step) && !rebuilt {
		slog.Info("step marked completed", "step", step)
		return
	}
	if !contains(completed, step) {
		completed = append(completed, step)
	}
	if err := t.saveList(ctx, completed); err != nil {
		slog.Warn("failed to update completed steps, rolling back flag", "step", step, "err", err)
		if rbErr := t.store.Remove(ctx, consts.StepKey(step)); rbErr != nil {
			slog.Warn("failed to roll back step flag", "step", step, "err", rbErr)
		}
		return
	}

	slog.Info("step marked completed", "step", step)
}

// IsStepCompleted is true only when the stored flag is exactly "true".
func (t *Tracker) IsStepCompleted(ctx context.Context, step consts.WorkflowStep) bool {
	value, ok, err := t.store.Get(ctx, consts.StepKey(step))
	if err != nil {
		slog.Warn("failed to read step flag", "step", step, "err", err)
		return false
	}
	return ok && value == consts.FlagTrue
}

// CompletedSteps returns the aggregate list; a malformed or unreadable list yields an empty one.
func (t *Tracker) CompletedSteps(ctx context.Context) []consts.WorkflowStep {
	completed, ok := t.readList(ctx)
	if !ok {
		return []consts.WorkflowStep{}
	}
	return completed
}

// ClearStepCompletion removes the step flag and drops the step from the completed list.
// If the list cannot be written a previously set flag is restored.
func (t *Tracker) ClearStepCompletion(ctx context.Context, step consts.WorkflowStep) {
	wasCompleted := t.IsStepCompleted(ctx, step)
	if err := t.store.Remove(ctx, consts.StepKey(step)); err != nil {
		slog.Warn("failed to clear step flag", "step", step, "err", err)
		return
	}

	completed, _ := t.loadForUpdate(ctx)
	filtered := make([]consts.WorkflowStep, 0, len(completed))
	for _, s := range completed {
		if s != step {
			filtered = append(filtered, s)
		}
	}
	if err := t.saveList(ctx, filtered); err != nil {
		slog.Warn("failed to update completed steps, restoring flag", "step", step, "err", err)
		if wasCompleted {
			if rbErr := t.store.Set(ctx, consts.StepKey(step), consts.FlagTrue); rbErr != nil {
				slog.Warn("failed to restore step flag", "step", step, "err", rbErr)
			}
		}
		return
	}

	slog.Info("step completion cleared", "step", step)
}

// ClearAllStepCompletions removes every step flag and the aggregate list.
func (t *Tracker) ClearAllStepCompletions(ctx context.Context) {
	for _, step := range consts.TrackableSteps {
		if err := t.store.Remove(ctx, consts.StepKey(step)); err != nil {
			slog.Warn("failed to clear step flag", "step", step, "err", err)
		}
	}
	if err := t.store.Remove(ctx, consts.KeyCompletedSteps); err != nil {
		slog.Warn("failed to clear completed steps", "err", err)
	}
}

// CompletionProgress is round(100 * completed / trackable steps), 0 when nothing can be read.
func (t *Tracker) CompletionProgress(ctx context.Context) int {
	completed := t.CompletedSteps(ctx)
	count := 0
	for _, step := range consts.TrackableSteps {
		if contains(completed, step) {
			count++
		}
	}
	return int(math.Round(100 * float64(count) / float64(len(consts.TrackableSteps))))
}

// AreAllStepsCompleted checks the required identity steps by their own flags, not the list.
func (t *Tracker) AreAllStepsCompleted(ctx context.Context) bool {
	for _, step := range consts.RequiredSteps {
		if !t.IsStepCompleted(ctx, step) {
			return false
		}
	}
	return true
}

func (t *Tracker) readList(ctx context.Context) ([]consts.WorkflowStep, bool) {
	raw, ok, err := t.store.Get(ctx, consts.KeyCompletedSteps)
	if err != nil {
		slog.Warn("failed to read completed steps", "err", err)
		return nil, false
	}
	if !ok {
		return []consts.WorkflowStep{}, true
	}
	var completed []consts.WorkflowStep
	if err := json.Unmarshal([]byte(raw), &completed); err != nil {
		slog.Warn("completed steps list is malformed", "err", err)
		return nil, false
	}
	if completed == nil {
		completed = []consts.WorkflowStep{}
	}
	return completed, true
}

// loadForUpdate returns the list to mutate. An unreadable list is rebuilt from the per-step flags
// so a write never drops steps that are still flagged; rebuilt reports that the stored list must be
// rewritten even when the caller has nothing to add.
func (t *Tracker) loadForUpdate(ctx context.Context) (completed []consts.WorkflowStep, rebuilt bool) {
	if completed, ok := t.readList(ctx); ok {
		return completed, false
	}
	completed = make([]consts.WorkflowStep, 0, len(consts.TrackableSteps))
	for _, step := range consts.TrackableSteps {
		if t.IsStepCompleted(ctx, step) {
			completed = append(completed, step)
		}
	}
	return completed, true
}

func (t *Tracker) saveList(ctx context.Context, completed []consts.WorkflowStep) error {
	raw, err := json.Marshal(completed)
	if err != nil {
		return err
	}
	return t.store.Set(ctx, consts.KeyCompletedSteps, string(raw))
}

func contains(list []consts.WorkflowStep, step consts.WorkflowStep) bool {
	for _, s := range list {
		if s == step {
			return true
		}
	}
	return false
}
