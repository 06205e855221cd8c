package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewOnboardingConfigDefaults(t *testing.T) {
	t.Setenv("PLAN_CATALOG", "plans.yaml")

	cfg, err := NewOnboardingConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, BackendMemory, cfg.FlagBackend)
	require.Equal(t, "http://localhost:3000", cfg.AllowOrigins())
	require.Equal(t, 5*time.Second, cfg.NotifyTimeout)
	require.False(t, cfg.UsesDatabase())
}

func TestNewOnboardingConfigFromEnv(t *testing.T) {
	t.Setenv("FLAG_BACKEND", "postgres")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("SESSION_IDLE", "15m")

	cfg, err := NewOnboardingConfig()
	require.NoError(t, err)
	require.True(t, cfg.UsesDatabase())
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	require.Equal(t, 15*time.Minute, cfg.SessionIdle)
}

func TestValidateRejectsBadBackends(t *testing.T) {
	require.Error(t, (&OnboardingConfig{FlagBackend: "redis", PlanCatalogPath: "p"}).Validate())
	require.Error(t, (&OnboardingConfig{FlagBackend: BackendSQLite, PlanCatalogPath: "p"}).Validate())
	require.Error(t, (&OnboardingConfig{FlagBackend: BackendMemory}).Validate())
	require.NoError(t, (&OnboardingConfig{FlagBackend: BackendPostgres}).Validate())
}
