package flags

import (
	"context"
	"errors"
	"time"

	dbs "github.com/Builder-Lawyers/tenant-onboarding/pkg/db"
	"github.com/jackc/pgx/v5"
)

type Postgres struct {
	uowFactory *dbs.UOWFactory
}

var _ Backend = (*Postgres)(nil)

func NewPostgres(uowFactory *dbs.UOWFactory) *Postgres {
	return &Postgres{uowFactory: uowFactory}
}

func (p *Postgres) Get(ctx context.Context, namespace, key string) (value string, ok bool, err error) {
	uow := p.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return "", false, err
	}
	defer uow.Finalize(&err)

	err = tx.QueryRow(ctx, "SELECT value FROM builder.onboarding_flags WHERE namespace = $1 AND key = $2",
		namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		err = nil
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, namespace, key, value string) (err error) {
	uow := p.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return err
	}
	defer uow.Finalize(&err)

	_, err = tx.Exec(ctx, `INSERT INTO builder.onboarding_flags (namespace, key, value, updated_at) VALUES ($1,$2,$3,$4)
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		namespace, key, value, time.Now())
	return err
}

func (p *Postgres) Remove(ctx context.Context, namespace, key string) (err error) {
	uow := p.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return err
	}
	defer uow.Finalize(&err)

	_, err = tx.Exec(ctx, "DELETE FROM builder.onboarding_flags WHERE namespace = $1 AND key = $2", namespace, key)
	return err
}
