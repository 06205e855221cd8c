package db

import (
	"encoding/json"
	"time"
)

type Outbox struct {
	ID        uint64          `db:"id"`
	Event     string          `db:"event"`
	Status    int             `db:"status"`
	Payload   json.RawMessage `db:"payload"`
	CreatedAt time.Time       `db:"created_at"`
}

type PaymentPlan struct {
	ID               int64  `db:"id"`
	Name             string `db:"name"`
	IncludedBranches int    `db:"included_branches"`
	StripeID         string `db:"stripe_id"`
}
