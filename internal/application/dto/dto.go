package dto

import (
	"bytes"
	"encoding/json"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/entity"
)

type AddonAssignment struct {
	AddonID      int64               `json:"addon_id"`
	FeatureLevel consts.FeatureLevel `json:"feature_level"`
}

type BranchAddonAssignment struct {
	BranchID         int               `json:"branch_id"`
	AddonAssignments []AddonAssignment `json:"addon_assignments"`
}

type AssignPlanRequest struct {
	TenantID                     string                  `json:"tenant_id"`
	PlanID                       int64                   `json:"plan_id"`
	BillingCycle                 string                  `json:"billing_cycle"`
	BranchesCount                int                     `json:"branches_count"`
	OrganizationAddonAssignments []AddonAssignment       `json:"organization_addon_assignments"`
	BranchAddonAssignments       []BranchAddonAssignment `json:"branch_addon_assignments"`
}

type AssignPlanResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message"`
}

func (r AssignPlanResponse) HasData() bool {
	trimmed := bytes.TrimSpace(r.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// FailureMessage prefers the error field over the message field.
func (r AssignPlanResponse) FailureMessage() string {
	if r.Error != "" {
		return r.Error
	}
	return r.Message
}

type Notification struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Type        consts.NotificationType `json:"type"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationResult struct {
	IsValid bool
	Data    any
	Errors  []FieldError
}

type RuleResult struct {
	IsValid bool
	Message string
}

type SubmissionStatus struct {
	IsSubmitting bool   `json:"isSubmitting"`
	HasError     bool   `json:"hasError"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

type ProgressResponse struct {
	TargetStep     consts.WorkflowStep   `json:"targetStep"`
	CompletedSteps []consts.WorkflowStep `json:"completedSteps"`
	TrackedSteps   []consts.WorkflowStep `json:"trackedSteps"`
	Progress       int                   `json:"progress"`
	TenantID       string                `json:"tenantId,omitempty"`
}

type SubmitPlanRequest struct {
	PlanID         int64                  `json:"planId"`
	BillingCycle   consts.BillingCycle    `json:"billingCycle"`
	BranchCount    int                    `json:"branchCount"`
	SelectedAddons []entity.SelectedAddon `json:"selectedAddons"`
}

type CreateTenantResponse struct {
	TenantID string `json:"tenantId"`
}

type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}

type CreatePaymentResponse struct {
	SessionID    string `json:"sessionId"`
	ClientSecret string `json:"clientSecret"`
}

type PaymentStatusResponse struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type SubmitPlanResponse struct {
	Outcome       string           `json:"outcome"`
	Status        SubmissionStatus `json:"status"`
	Notifications []Notification   `json:"notifications"`
}

type NotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}
