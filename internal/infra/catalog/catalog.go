// Package catalog resolves plans offered during onboarding, either from a YAML file or the payment_plans table.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/entity"
	"gopkg.in/yaml.v3"
)

var ErrPlanNotFound = errors.New("plan not found")

type file struct {
	Plans []entity.Plan `yaml:"plans"`
}

type Static struct {
	plans map[int64]entity.Plan
}

var _ interfaces.PlanCatalog = (*Static)(nil)

func NewStatic(plans []entity.Plan) *Static {
	byID := make(map[int64]entity.Plan, len(plans))
	for _, p := range plans {
		byID[p.ID] = p
	}
	return &Static{plans: byID}
}

// Parse reads a document of the form `plans: [{id, name, included_branches, stripe_price_id}]`.
func Parse(raw []byte) (*Static, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("error parsing plan catalog, %w", err)
	}
	for _, p := range f.Plans {
		if p.ID <= 0 {
			return nil, fmt.Errorf("plan %q has invalid id %d", p.Name, p.ID)
		}
		if p.IncludedBranches < 0 {
			return nil, fmt.Errorf("plan %d has negative included_branches", p.ID)
		}
	}
	return NewStatic(f.Plans), nil
}

func Load(path string) (*Static, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading plan catalog %s, %w", path, err)
	}
	return Parse(raw)
}

func (s *Static) GetPlan(_ context.Context, planID int64) (*entity.Plan, error) {
	p, ok := s.plans[planID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrPlanNotFound, planID)
	}
	return &p, nil
}

// Plans returns every plan ordered by id.
func (s *Static) Plans() []entity.Plan {
	out := make([]entity.Plan, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
