package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/entity"
	dbmodels "github.com/Builder-Lawyers/tenant-onboarding/internal/infra/db"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/db/repo"
	"github.com/Builder-Lawyers/tenant-onboarding/pkg/db"
	"github.com/jackc/pgx/v5"
)

type Postgres struct {
	uowFactory *db.UOWFactory
}

var _ interfaces.PlanCatalog = (*Postgres)(nil)

func NewPostgres(uowFactory *db.UOWFactory) *Postgres {
	return &Postgres{uowFactory: uowFactory}
}

func (p *Postgres) GetPlan(ctx context.Context, planID int64) (plan *entity.Plan, err error) {
	uow := p.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return nil, err
	}
	defer uow.Finalize(&err)

	model, err := repo.NewPlanRepo(tx).GetPlanByID(ctx, planID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrPlanNotFound, planID)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading plan %d, %v", planID, err)
	}

	return dbmodels.MapPaymentPlanModelToEntity(*model), nil
}

// Seed upserts the plans of a static catalog into the payment_plans table.
func Seed(ctx context.Context, uowFactory *db.UOWFactory, source *Static) (err error) {
	uow := uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return err
	}
	defer uow.Finalize(&err)

	plans := repo.NewPlanRepo(tx)
	for _, p := range source.Plans() {
		if err = plans.UpsertPlan(ctx, dbmodels.PaymentPlan{
			ID:               p.ID,
			Name:             p.Name,
			IncludedBranches: p.IncludedBranches,
			StripeID:         p.StripePriceID,
		}); err != nil {
			return err
		}
	}
	slog.Info("Seeded payment plans", "count", len(source.Plans()))

	return nil
}
