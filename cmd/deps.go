package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/catalog"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/config"
	infradb "github.com/Builder-Lawyers/tenant-onboarding/internal/infra/db"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/flags"
	"github.com/Builder-Lawyers/tenant-onboarding/pkg/db"
	"github.com/jackc/pgx/v5/pgxpool"
)

// deps are the storage dependencies shared by every command.
type deps struct {
	cfg        *config.OnboardingConfig
	backend    flags.Backend
	uowFactory *db.UOWFactory
	catalog    interfaces.PlanCatalog
	closers    []func()
}

func openDeps(ctx context.Context, cfg *config.OnboardingConfig) (d *deps, err error) {
	d = &deps{cfg: cfg}
	defer func() {
		if err != nil {
			d.Close()
		}
	}()

	if cfg.UsesDatabase() {
		dbConfig := db.NewConfig()
		pool, err := pgxpool.New(ctx, dbConfig.GetDSN())
		if err != nil {
			return d, fmt.Errorf("failed to create pool: %v", err)
		}
		d.closers = append(d.closers, pool.Close)
		if err = pool.Ping(ctx); err != nil {
			return d, fmt.Errorf("failed to connect to db: %v", err)
		}
		if err = infradb.Migrate(ctx, pool); err != nil {
			return d, err
		}
		d.uowFactory = db.NewUoWFactory(pool)
	}

	switch cfg.FlagBackend {
	case config.BackendPostgres:
		d.backend = flags.NewPostgres(d.uowFactory)
	case config.BackendSQLite:
		sqlite, err := flags.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return d, err
		}
		d.closers = append(d.closers, func() { _ = sqlite.Close() })
		d.backend = sqlite
	default:
		d.backend = flags.NewMemory()
	}

	var static *catalog.Static
	if cfg.PlanCatalogPath != "" {
		if static, err = catalog.Load(cfg.PlanCatalogPath); err != nil {
			return d, err
		}
	}
	switch {
	case d.uowFactory != nil:
		if static != nil {
			if err = catalog.Seed(ctx, d.uowFactory, static); err != nil {
				return d, err
			}
		}
		d.catalog = catalog.NewPostgres(d.uowFactory)
	case static != nil:
		d.catalog = static
	default:
		return d, fmt.Errorf("no plan catalog configured")
	}

	slog.Info("storage ready", "backend", cfg.FlagBackend, "catalog", cfg.PlanCatalogPath)
	return d, nil
}

func (d *deps) store(namespace string) interfaces.FlagStore {
	return flags.Scope(d.backend, namespace)
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}
