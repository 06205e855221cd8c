package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/db"
	shared "github.com/Builder-Lawyers/tenant-onboarding/pkg/interfaces"
	"github.com/jackc/pgx/v5"
)

type EventRepo struct {
	tx pgx.Tx
}

var _ interfaces.EventRepo = (*EventRepo)(nil)

func NewEventRepo(tx pgx.Tx) *EventRepo {
	return &EventRepo{tx: tx}
}

func (e *EventRepo) InsertEvent(ctx context.Context, event shared.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("err marshalling event payload, %v", err)
	}
	outbox := db.Outbox{
		Event:     event.GetType(),
		Status:    int(consts.NotProcessed),
		Payload:   json.RawMessage(payload),
		CreatedAt: time.Now(),
	}
	_, err = e.tx.Exec(ctx, "INSERT INTO builder.outbox (event, status, payload, created_at) VALUES ($1,$2,$3,$4)",
		outbox.Event, outbox.Status, outbox.Payload, outbox.CreatedAt)
	if err != nil {
		return fmt.Errorf("err inserting a new event, %v", err)
	}

	return nil
}

type PlanRepo struct {
	tx pgx.Tx
}

func NewPlanRepo(tx pgx.Tx) *PlanRepo {
	return &PlanRepo{tx: tx}
}

func (p *PlanRepo) GetPlanByID(ctx context.Context, planID int64) (*db.PaymentPlan, error) {
	var plan db.PaymentPlan
	err := p.tx.QueryRow(ctx, "SELECT id, name, included_branches, stripe_id FROM builder.payment_plans WHERE id = $1",
		planID).Scan(&plan.ID, &plan.Name, &plan.IncludedBranches, &plan.StripeID)
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (p *PlanRepo) UpsertPlan(ctx context.Context, plan db.PaymentPlan) error {
	_, err := p.tx.Exec(ctx, `INSERT INTO builder.payment_plans (id, name, included_branches, stripe_id) VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, included_branches = EXCLUDED.included_branches, stripe_id = EXCLUDED.stripe_id`,
		plan.ID, plan.Name, plan.IncludedBranches, plan.StripeID)
	if err != nil {
		return fmt.Errorf("err upserting plan, %v", err)
	}

	return nil
}
