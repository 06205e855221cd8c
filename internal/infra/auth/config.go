package auth

import (
	"log/slog"
	"time"

	"github.com/Builder-Lawyers/tenant-onboarding/pkg/env"
)

type SessionConfig struct {
	Secret string        `env:"SESSION_SECRET"`
	TTL    time.Duration `env:"SESSION_TTL" envDefault:"72h"`
	Issuer string        `env:"SESSION_ISSUER" envDefault:"tenant-onboarding"`
}

func NewSessionConfig() *SessionConfig {
	cfg := &SessionConfig{}
	if err := env.Parse(cfg); err != nil {
		slog.Error("error parsing session config", "err", err)
		return &SessionConfig{TTL: 72 * time.Hour, Issuer: "tenant-onboarding"}
	}
	return cfg
}
