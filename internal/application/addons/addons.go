// Package addons turns the add-on selection model into billing API assignments.
package addons

import (
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/dto"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/entity"
)

// FormatOrganization keeps organization-scoped add-ons in input order. Duplicates are not removed.
func FormatOrganization(selected []entity.SelectedAddon) []dto.AddonAssignment {
	out := make([]dto.AddonAssignment, 0, len(selected))
	for _, addon := range selected {
		if addon.PricingScope != consts.PricingScopeOrganization {
			continue
		}
		out = append(out, assignment(addon))
	}
	return out
}

// FormatBranches returns exactly branchCount entries with branch ids 1..branchCount. A branch-scoped
// add-on is assigned to branch i+1 only if its selection has a selected entry for branch index i.
func FormatBranches(selected []entity.SelectedAddon, branchCount int) []dto.BranchAddonAssignment {
	if branchCount < 0 {
		branchCount = 0
	}
	out := make([]dto.BranchAddonAssignment, 0, branchCount)
	for i := 0; i < branchCount; i++ {
		assignments := make([]dto.AddonAssignment, 0)
		for _, addon := range selected {
			if addon.PricingScope == consts.PricingScopeBranch && addon.SelectedForBranch(i) {
				assignments = append(assignments, assignment(addon))
			}
		}
		out = append(out, dto.BranchAddonAssignment{
			BranchID:         i + 1,
			AddonAssignments: assignments,
		})
	}
	return out
}

func assignment(addon entity.SelectedAddon) dto.AddonAssignment {
	return dto.AddonAssignment{
		AddonID:      addon.AddonID,
		FeatureLevel: consts.FeatureLevelBasic,
	}
}
