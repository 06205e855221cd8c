package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/commands/payment"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/commands/tenant"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/processors"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/query"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/rules"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/sessions"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/auth"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/client/billing"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/config"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/mail"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/notify"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/schema"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/presentation/rest"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/presentation/scheduler"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/spf13/cobra"
)

func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the onboarding HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.NewOnboardingConfig()
	if err != nil {
		return err
	}
	d, err := openDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	// Configs
	sessionConfig := auth.NewSessionConfig()
	billingConfig := billing.NewBillingConfig()
	paymentConfig := payment.NewPaymentConfig()
	outboxConfig := scheduler.NewOutboxConfig()
	mailConfig := mail.NewMailConfig()

	provider, err := auth.NewSessionProvider(sessionConfig)
	if err != nil {
		return err
	}
	validator, err := schema.NewValidator()
	if err != nil {
		return fmt.Errorf("failed to compile schemas: %v", err)
	}

	presenters := func(ns string) sessions.Presenter {
		if d.uowFactory == nil {
			return notify.Log{Namespace: ns}
		}
		return notify.Multi{notify.Log{Namespace: ns}, notify.NewOutbox(d.uowFactory, ns)}
	}

	handlers := &application.Handlers{
		Sessions: sessions.NewRegistry(d.store, presenters, billing.NewBillingClient(billingConfig),
			validator, rules.PlanRules{}),
		Catalog:      d.catalog,
		CreateTenant: tenant.NewCreateTenant(),
		GetProgress:  query.NewGetProgress(),
		Payment:      payment.NewPayment(d.catalog, d.store, paymentConfig),
	}

	app := fiber.New(fiber.Config{
		IdleTimeout: 5 * time.Second,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins(),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Onboarding-Session",
		AllowCredentials: true,
	}))
	rest.RegisterHandlers(app, rest.NewServer(handlers, provider))

	var outboxPoller *scheduler.OutboxPoller
	if d.uowFactory != nil {
		sinks := notify.Sinks{notify.LogSink{}}
		if cfg.NotifyWebhookURL != "" {
			sinks = append(sinks, notify.NewWebhookSink(cfg.NotifyWebhookURL, cfg.NotifyTimeout))
		}
		if mailConfig.Enabled() {
			sinks = append(sinks, mail.NewMailServer(mailConfig))
		}
		outboxPoller = scheduler.NewOutboxPoller(&application.Processors{
			DeliverNotification: processors.NewDeliverNotification(sinks),
		}, d.uowFactory, outboxConfig)
		go outboxPoller.Start()
	}

	stopPrune := make(chan struct{})
	go pruneSessions(handlers.Sessions, cfg.SessionIdle, stopPrune)

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.HTTPAddr)
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case <-c:
		slog.Info("Gracefully shutting down...")
	case err = <-listenErr:
		slog.Error("listener stopped", "err", err)
	}
	_ = app.Shutdown()
	close(stopPrune)
	if outboxPoller != nil {
		outboxPoller.Stop()
	}

	slog.Info("Running cleanup tasks...")
	return err
}

func pruneSessions(registry *sessions.Registry, idle time.Duration, stop <-chan struct{}) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			registry.Prune(idle)
		case <-stop:
			return
		}
	}
}
