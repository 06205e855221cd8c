package steps

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
)

// Cleanup removes every onboarding key except the tenant id, so a failed onboarding can be resumed
// without creating the tenant identity again. All removals are attempted; their errors are joined.
func Cleanup(ctx context.Context, store interfaces.FlagStore) error {
	keys := []string{
		consts.KeyCompletedSteps,
		consts.KeyCachedPlanData,
		consts.KeyPaymentStatus,
		consts.KeyPaymentSessionID,
	}
	for _, step := range consts.TrackableSteps {
		keys = append(keys, consts.StepKey(step))
	}

	var errs []error
	for _, key := range keys {
		if err := store.Remove(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	slog.Info("onboarding state cleaned up, tenant id kept")
	return nil
}
