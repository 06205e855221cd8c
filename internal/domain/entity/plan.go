package entity

import "github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"

type Plan struct {
	ID               int64  `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	IncludedBranches int    `json:"included_branches" yaml:"included_branches"`
	StripePriceID    string `json:"-" yaml:"stripe_price_id"`
}

type BranchSelection struct {
	BranchIndex int    `json:"branchIndex"`
	BranchName  string `json:"branchName"`
	IsSelected  bool   `json:"isSelected"`
}

// SelectedAddon is the UI selection model of one add-on. Branches is only read for branch-scoped add-ons.
type SelectedAddon struct {
	AddonID      int64               `json:"addon_id"`
	PricingScope consts.PricingScope `json:"pricing_scope"`
	Branches     []BranchSelection   `json:"branches"`
	IsIncluded   bool                `json:"is_included"`
}

// SelectedForBranch reports whether the add-on has an explicit selected entry for branchIndex.
func (a SelectedAddon) SelectedForBranch(branchIndex int) bool {
	for _, b := range a.Branches {
		if b.BranchIndex == branchIndex && b.IsSelected {
			return true
		}
	}
	return false
}

type TenantSubmissionData struct {
	SelectedPlan   *Plan               `json:"selectedPlan"`
	BillingCycle   consts.BillingCycle `json:"billingCycle"`
	BranchCount    int                 `json:"branchCount"`
	SelectedAddons []SelectedAddon     `json:"selectedAddons"`
}

// CachedPlanData is the snapshot persisted after a confirmed plan assignment.
// A nil SelectedAddons means the add-on step has not been configured yet; an empty slice means it was.
type CachedPlanData struct {
	SelectedPlan   *Plan               `json:"selectedPlan"`
	BillingCycle   consts.BillingCycle `json:"billingCycle"`
	BranchCount    int                 `json:"branchCount"`
	SelectedAddons []SelectedAddon     `json:"selectedAddons"`
}

func (c CachedPlanData) AddonsConfigured() bool {
	return c.SelectedAddons != nil
}

type SubmissionState struct {
	IsSubmitting bool
	Error        string
}

type BasicInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
