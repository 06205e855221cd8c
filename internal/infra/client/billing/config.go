package billing

import (
	"time"

	"github.com/Builder-Lawyers/tenant-onboarding/pkg/env"
)

type BillingConfig struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

func NewBillingConfig() BillingConfig {
	timeout, err := time.ParseDuration(env.GetEnv("BILLING_TIMEOUT", "10s"))
	if err != nil {
		timeout = 10 * time.Second
	}
	return BillingConfig{
		baseURL: env.GetEnv("BILLING_URL", "http://localhost:3001/api/v1"),
		apiKey:  env.GetEnv("BILLING_API_KEY", ""),
		timeout: timeout,
	}
}

func NewBillingConfigFor(baseURL, apiKey string, timeout time.Duration) BillingConfig {
	return BillingConfig{baseURL: baseURL, apiKey: apiKey, timeout: timeout}
}
