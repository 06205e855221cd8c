package db

import (
	"fmt"

	"github.com/Builder-Lawyers/tenant-onboarding/pkg/env"
)

type Config struct {
	host     string
	port     string
	user     string
	password string
	name     string
	sslMode  string
}

func NewConfig() Config {
	return Config{
		host:     env.GetEnv("DB_HOST", "localhost"),
		port:     env.GetEnv("DB_PORT", "5432"),
		user:     env.GetEnv("DB_USER", "postgres"),
		password: env.GetEnv("DB_PASSWORD", "postgres"),
		name:     env.GetEnv("DB_NAME", "onboarding"),
		sslMode:  env.GetEnv("DB_SSLMODE", "disable"),
	}
}

func (c Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.user, c.password, c.host, c.port, c.name, c.sslMode)
}
