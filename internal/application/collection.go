package application

import (
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/commands/payment"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/commands/tenant"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/processors"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/query"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/sessions"
)

type Handlers struct {
	Sessions     *sessions.Registry
	Catalog      interfaces.PlanCatalog
	CreateTenant *tenant.CreateTenant
	GetProgress  *query.GetProgress
	Payment      *payment.Payment
}

type Processors struct {
	DeliverNotification *processors.DeliverNotification
}
