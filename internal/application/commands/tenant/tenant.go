package tenant

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/dto"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/errs"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/steps"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

type CreateTenant struct {
	policy *bluemonday.Policy
}

func NewCreateTenant() *CreateTenant {
	return &CreateTenant{policy: bluemonday.StrictPolicy()}
}

// Execute records the tenant basic info step. The tenant id survives cleanup, so a resumed
// onboarding keeps the identity it already has.
func (c *CreateTenant) Execute(ctx context.Context, store interfaces.FlagStore, info entity.BasicInfo) (string, error) {
	info = c.sanitize(info)
	if fieldErrs := validate(info); len(fieldErrs) > 0 {
		return "", fieldErrs
	}

	tenantID, ok, err := store.Get(ctx, consts.KeyTenantID)
	if err != nil {
		return "", fmt.Errorf("error reading tenant id, %w", err)
	}
	if !ok || tenantID == "" {
		tenantID = uuid.NewString()
		if err = store.Set(ctx, consts.KeyTenantID, tenantID); err != nil {
			return "", fmt.Errorf("error saving tenant id, %w", err)
		}
		slog.Info("tenant created", "tenantID", tenantID, "name", info.Name)
	} else {
		slog.Info("tenant resumed", "tenantID", tenantID)
	}

	steps.NewTracker(store).MarkStepCompleted(ctx, consts.StepTenantInfo)
	return tenantID, nil
}

func (c *CreateTenant) sanitize(info entity.BasicInfo) entity.BasicInfo {
	return entity.BasicInfo{
		Name:  strings.TrimSpace(c.policy.Sanitize(info.Name)),
		Email: strings.TrimSpace(info.Email),
		Phone: strings.TrimSpace(info.Phone),
	}
}

func validate(info entity.BasicInfo) errs.FieldErrors {
	var fieldErrs errs.FieldErrors
	if info.Name == "" {
		fieldErrs = append(fieldErrs, dto.FieldError{Field: "name", Message: "is required"})
	}
	if _, err := mail.ParseAddress(info.Email); err != nil {
		fieldErrs = append(fieldErrs, dto.FieldError{Field: "email", Message: "is not a valid email address"})
	}
	if !validPhone(info.Phone) {
		fieldErrs = append(fieldErrs, dto.FieldError{Field: "phone", Message: "is not a valid phone number"})
	}
	return fieldErrs
}

func validPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case strings.ContainsRune("+-() ", r):
		default:
			return false
		}
	}
	return digits >= 7
}

// Verify marks one of the verification steps. Verification code delivery happens elsewhere.
func Verify(ctx context.Context, store interfaces.FlagStore, step consts.WorkflowStep) error {
	if step != consts.StepEmailVerification && step != consts.StepPhoneVerification {
		return errs.FieldErrors{{Field: "step", Message: fmt.Sprintf("%s is not a verification step", step)}}
	}
	tenantID, ok, err := store.Get(ctx, consts.KeyTenantID)
	if err != nil {
		return fmt.Errorf("error reading tenant id, %w", err)
	}
	if !ok || tenantID == "" {
		return errs.TenantRequiredError{}
	}

	steps.NewTracker(store).MarkStepCompleted(ctx, step)
	return nil
}
