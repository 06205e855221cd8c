package consts

import "strings"

type WorkflowStep string

const (
	StepTenantInfo        WorkflowStep = "TENANT_INFO"
	StepEmailVerification WorkflowStep = "EMAIL_VERIFICATION"
	StepPhoneVerification WorkflowStep = "PHONE_VERIFICATION"
	StepPlanSelection     WorkflowStep = "PLAN_SELECTION"
	StepAddonSelection    WorkflowStep = "ADDON_SELECTION"
	StepPlanSummary       WorkflowStep = "PLAN_SUMMARY"
	StepPayment           WorkflowStep = "PAYMENT"
	StepSuccess           WorkflowStep = "SUCCESS"
)

// WorkflowOrder is the intended traversal order of the onboarding flow.
var WorkflowOrder = []WorkflowStep{
	StepTenantInfo,
	StepEmailVerification,
	StepPhoneVerification,
	StepPlanSelection,
	StepAddonSelection,
	StepPlanSummary,
	StepPayment,
	StepSuccess,
}

// TrackableSteps have their own completion flag. SUCCESS is terminal and never tracked.
var TrackableSteps = []WorkflowStep{
	StepTenantInfo,
	StepEmailVerification,
	StepPhoneVerification,
	StepPlanSelection,
	StepAddonSelection,
	StepPlanSummary,
	StepPayment,
}

// RequiredSteps must all be completed before the tenant identity is considered established.
var RequiredSteps = []WorkflowStep{
	StepTenantInfo,
	StepEmailVerification,
	StepPhoneVerification,
}

func ParseStep(raw string) (WorkflowStep, bool) {
	step := WorkflowStep(strings.ToUpper(strings.TrimSpace(raw)))
	return step, step.Index() >= 0
}

// Index returns the position of the step in WorkflowOrder, or -1 for unknown values.
func (s WorkflowStep) Index() int {
	for i, step := range WorkflowOrder {
		if step == s {
			return i
		}
	}
	return -1
}

func (s WorkflowStep) Trackable() bool {
	for _, step := range TrackableSteps {
		if step == s {
			return true
		}
	}
	return false
}

// Storage keys of the flag store.
const (
	KeyTenantID         = "tenant_id"
	KeyCompletedSteps   = "completed_steps"
	KeyCachedPlanData   = "cached_plan_data"
	KeyPaymentStatus    = "payment_status"
	KeyPaymentSessionID = "payment_session_id"
)

const stepKeyPrefix = "step_"

func StepKey(step WorkflowStep) string {
	return stepKeyPrefix + strings.ToLower(string(step))
}

// FlagTrue is the only stored value that counts as completed.
const FlagTrue = "true"

type PricingScope string

const (
	PricingScopeOrganization PricingScope = "organization"
	PricingScopeBranch       PricingScope = "branch"
)

type FeatureLevel string

const FeatureLevelBasic FeatureLevel = "basic"

type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
	NotificationInfo    NotificationType = "info"
)

type OutboxStatus int

const (
	NotProcessed OutboxStatus = iota
	Processed
	Processing
	InError
)
