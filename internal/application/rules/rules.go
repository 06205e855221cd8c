package rules

import (
	"fmt"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/dto"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/entity"
)

const MaxBranchCount = 500

type PlanRules struct{}

var _ interfaces.PlanRules = PlanRules{}

func (PlanRules) ValidatePlanSelection(plan *entity.Plan) dto.RuleResult {
	if plan == nil {
		return dto.RuleResult{Message: "Please select a plan before continuing"}
	}
	if plan.ID <= 0 {
		return dto.RuleResult{Message: "Selected plan is not valid"}
	}
	return dto.RuleResult{IsValid: true}
}

// ValidateBranchCount rejects negative counts, counts above MaxBranchCount and counts below the
// number of branches the plan already includes.
func (PlanRules) ValidateBranchCount(count, includedCount int) dto.RuleResult {
	if count < 0 {
		return dto.RuleResult{Message: "Branch count cannot be negative"}
	}
	if count > MaxBranchCount {
		return dto.RuleResult{Message: fmt.Sprintf("Branch count cannot exceed %d", MaxBranchCount)}
	}
	if count < includedCount {
		return dto.RuleResult{Message: fmt.Sprintf("The selected plan includes %d branches, branch count must be at least %d", includedCount, includedCount)}
	}
	return dto.RuleResult{IsValid: true}
}
