package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Builder-Lawyers/tenant-onboarding/pkg/env"
)

type FlagBackend string

const (
	BackendMemory   FlagBackend = "memory"
	BackendSQLite   FlagBackend = "sqlite"
	BackendPostgres FlagBackend = "postgres"
)

type OnboardingConfig struct {
	HTTPAddr         string        `env:"HTTP_ADDR" envDefault:":8080"`
	CORSOrigins      []string      `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`
	FlagBackend      FlagBackend   `env:"FLAG_BACKEND" envDefault:"memory"`
	SQLitePath       string        `env:"SQLITE_PATH" envDefault:"onboarding.db"`
	PlanCatalogPath  string        `env:"PLAN_CATALOG"`
	NotifyWebhookURL string        `env:"NOTIFY_WEBHOOK_URL"`
	NotifyTimeout    time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"5s"`
	SessionIdle      time.Duration `env:"SESSION_IDLE" envDefault:"1h"`
}

func NewOnboardingConfig() (*OnboardingConfig, error) {
	cfg := &OnboardingConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *OnboardingConfig) Validate() error {
	switch c.FlagBackend {
	case BackendMemory, BackendSQLite, BackendPostgres:
	default:
		return fmt.Errorf("unknown FLAG_BACKEND %q", c.FlagBackend)
	}
	if c.FlagBackend == BackendSQLite && c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
	}
	if c.FlagBackend != BackendPostgres && c.PlanCatalogPath == "" {
		return fmt.Errorf("PLAN_CATALOG is required unless plans are read from postgres")
	}
	return nil
}

// UsesDatabase reports whether postgres has to be reachable.
func (c *OnboardingConfig) UsesDatabase() bool {
	return c.FlagBackend == BackendPostgres
}

func (c *OnboardingConfig) AllowOrigins() string {
	return strings.Join(c.CORSOrigins, ",")
}
