package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/addons"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/dto"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/errs"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/steps"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/entity"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/schema"
)

type Outcome string

const (
	OutcomeRejected  Outcome = "rejected"
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

const failureTitle = "Plan assignment failed"

// Submission assigns the selected plan and add-ons to the tenant through the billing API.
//
// IsSubmitting is advisory: a second Submit while one is in flight is not rejected, both reach the
// billing API and the last one to finish wins the state and the cached selection. The mutex only
// keeps the state itself consistent.
type Submission struct {
	store     interfaces.FlagStore
	tracker   *steps.Tracker
	assigner  interfaces.PlanAssigner
	validator interfaces.SchemaValidator
	rules     interfaces.PlanRules
	notifier  interfaces.Notifier
	presenter interfaces.ErrorPresenter

	mu    sync.Mutex
	state entity.SubmissionState
}

func NewSubmission(store interfaces.FlagStore, tracker *steps.Tracker, assigner interfaces.PlanAssigner,
	validator interfaces.SchemaValidator, rules interfaces.PlanRules, notifier interfaces.Notifier,
	presenter interfaces.ErrorPresenter) *Submission {
	return &Submission{
		store:     store,
		tracker:   tracker,
		assigner:  assigner,
		validator: validator,
		rules:     rules,
		notifier:  notifier,
		presenter: presenter,
	}
}

// Submit runs one submission attempt. Problems are reported through notifications and Status,
// never as errors. onSuccess may be nil.
func (s *Submission) Submit(ctx context.Context, data entity.TenantSubmissionData, onSuccess func()) Outcome {
	if result := s.rules.ValidatePlanSelection(data.SelectedPlan); !result.IsValid {
		s.warn(ctx, "Plan selection required", result.Message)
		return OutcomeRejected
	}
	if data.SelectedPlan == nil {
		s.warn(ctx, "Plan selection required", "Select a plan before continuing")
		return OutcomeRejected
	}
	if result := s.rules.ValidateBranchCount(data.BranchCount, data.SelectedPlan.IncludedBranches); !result.IsValid {
		s.warn(ctx, "Invalid branch count", result.Message)
		return OutcomeRejected
	}

	tenantID := s.tenantID(ctx)
	if tenantID == "" {
		s.warn(ctx, "Tenant identity required", "Complete the tenant information step before selecting a plan")
		return OutcomeRejected
	}

	s.setState(entity.SubmissionState{IsSubmitting: true})

	payload := dto.AssignPlanRequest{
		TenantID:                     tenantID,
		PlanID:                       data.SelectedPlan.ID,
		BillingCycle:                 string(data.BillingCycle),
		BranchesCount:                data.BranchCount,
		OrganizationAddonAssignments: addons.FormatOrganization(data.SelectedAddons),
		BranchAddonAssignments:       addons.FormatBranches(data.SelectedAddons, data.BranchCount),
	}
	validation := s.validator.Validate(payload, schema.AssignPlanPayload, "plan assignment")
	if !validation.IsValid {
		s.warn(ctx, "Invalid plan assignment", errs.FieldErrors(validation.Errors).Error())
		s.setSubmitting(false)
		return OutcomeRejected
	}

	resp, err := s.assigner.AssignPlan(ctx, payload)
	switch {
	case err != nil:
		s.fail(ctx, tenantID, err)
		return OutcomeFailed
	case resp == nil:
		s.fail(ctx, tenantID, errs.RemoteError{Message: "billing api returned no response"})
		return OutcomeFailed
	case !resp.Success:
		message := resp.FailureMessage()
		if message == "" {
			message = "plan assignment was rejected"
		}
		s.fail(ctx, tenantID, errs.RemoteError{Message: message})
		return OutcomeFailed
	case !resp.HasData():
		message := resp.FailureMessage()
		if message == "" {
			message = "plan assignment returned no data"
		}
		s.fail(ctx, tenantID, errs.RemoteError{Message: message})
		return OutcomeFailed
	}

	s.cacheSelection(ctx, data)
	s.tracker.MarkStepCompleted(ctx, consts.StepPlanSelection)
	s.notifier.Notify(ctx, dto.Notification{
		Title:       "Plan assigned",
		Description: fmt.Sprintf("%s plan has been assigned to your organization", data.SelectedPlan.Name),
		Type:        consts.NotificationSuccess,
	})
	s.setState(entity.SubmissionState{})
	slog.Info("plan assigned", "tenantID", tenantID, "planID", data.SelectedPlan.ID, "branches", data.BranchCount)

	if onSuccess != nil {
		onSuccess()
	}
	return OutcomeSucceeded
}

// ClearError drops the last error and leaves IsSubmitting untouched.
func (s *Submission) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
}

func (s *Submission) Status() dto.SubmissionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dto.SubmissionStatus{
		IsSubmitting: s.state.IsSubmitting,
		HasError:     s.state.Error != "",
		ErrorMessage: s.state.Error,
	}
}

func (s *Submission) State() entity.SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Submission) tenantID(ctx context.Context) string {
	tenantID, ok, err := s.store.Get(ctx, consts.KeyTenantID)
	if err != nil {
		slog.Warn("failed to read tenant id", "err", err)
		return ""
	}
	if !ok {
		return ""
	}
	return tenantID
}

// cacheSelection persists the snapshot that marks the plan as assigned. A write failure is logged;
// the next successful submission overwrites the cache anyway.
func (s *Submission) cacheSelection(ctx context.Context, data entity.TenantSubmissionData) {
	selected := data.SelectedAddons
	if selected == nil {
		selected = []entity.SelectedAddon{}
	}
	raw, err := json.Marshal(entity.CachedPlanData{
		SelectedPlan:   data.SelectedPlan,
		BillingCycle:   data.BillingCycle,
		BranchCount:    data.BranchCount,
		SelectedAddons: selected,
	})
	if err == nil {
		err = s.store.Set(ctx, consts.KeyCachedPlanData, string(raw))
	}
	if err != nil {
		slog.Warn("failed to cache submitted plan", "err", err)
	}
}

func (s *Submission) fail(ctx context.Context, tenantID string, err error) {
	message := err.Error()
	if message == "" {
		message = "plan assignment failed"
	}
	var remote errs.RemoteError
	if !errors.As(err, &remote) {
		slog.Error("plan assignment request failed", "tenantID", tenantID, "err", err)
	} else {
		slog.Error("plan assignment rejected", "tenantID", tenantID, "reason", message)
	}

	s.setState(entity.SubmissionState{Error: message})
	s.presenter.Present(ctx, err, failureTitle)
}

func (s *Submission) warn(ctx context.Context, title, description string) {
	s.notifier.Notify(ctx, dto.Notification{Title: title, Description: description, Type: consts.NotificationWarning})
}

func (s *Submission) setState(state entity.SubmissionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Submission) setSubmitting(submitting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsSubmitting = submitting
}
