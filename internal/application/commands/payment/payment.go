package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/dto"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/errs"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/query"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/steps"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

// MetadataSession is the checkout session metadata key carrying the onboarding session namespace.
const MetadataSession = "onboarding_session"

// StoreResolver opens the flag store of an onboarding session.
type StoreResolver func(namespace string) interfaces.FlagStore

type Payment struct {
	catalog interfaces.PlanCatalog
	stores  StoreResolver
	cfg     PaymentConfig
}

type PaymentConfig struct {
	apiKey     string
	webhookKey string
	returnUrl  string
}

func NewPaymentConfig() PaymentConfig {
	return PaymentConfig{
		apiKey:     os.Getenv("STRIPE_KEY"),
		webhookKey: os.Getenv("STRIPE_WEBHOOK"),
		returnUrl:  os.Getenv("STRIPE_RETURN_URL"),
	}
}

func NewPaymentConfigFor(apiKey, webhookKey, returnUrl string) PaymentConfig {
	return PaymentConfig{apiKey: apiKey, webhookKey: webhookKey, returnUrl: returnUrl}
}

func NewPayment(catalog interfaces.PlanCatalog, stores StoreResolver, cfg PaymentConfig) *Payment {
	stripe.Key = cfg.apiKey
	stripe.SetHTTPClient(&http.Client{Timeout: 10 * time.Second})
	return &Payment{
		catalog: catalog,
		stores:  stores,
		cfg:     cfg,
	}
}

// CreatePayment opens an embedded checkout session for the assigned plan once the summary was acknowledged.
func (c *Payment) CreatePayment(ctx context.Context, store interfaces.FlagStore, namespace string) (*dto.CreatePaymentResponse, error) {
	tenantID, ok, err := store.Get(ctx, consts.KeyTenantID)
	if err != nil {
		return nil, fmt.Errorf("error reading tenant id, %w", err)
	}
	if !ok || tenantID == "" {
		return nil, errs.TenantRequiredError{}
	}

	evidence := query.CollectEvidence(ctx, store)
	if evidence.PaymentSucceeded {
		return nil, errs.PreconditionError{Message: "payment is already completed for this tenant"}
	}
	if evidence.AssignedPlan == nil || evidence.AssignedPlan.SelectedPlan == nil || !evidence.PlanSummaryCompleted {
		return nil, errs.PreconditionError{Message: "plan summary must be acknowledged before payment"}
	}

	plan, err := c.catalog.GetPlan(ctx, evidence.AssignedPlan.SelectedPlan.ID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving stripe price, %v", err)
	}

	params := &stripe.CheckoutSessionParams{
		UIMode:            stripe.String("embedded"),
		ReturnURL:         stripe.String(c.cfg.returnUrl + "/complete?session_id={CHECKOUT_SESSION_ID}"),
		ClientReferenceID: stripe.String(tenantID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(plan.StripePriceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
	}
	params.AddMetadata(MetadataSession, namespace)
	params.AddMetadata("tenant_id", tenantID)

	slog.Info("Creating a checkout session", "tenantID", tenantID, "planID", plan.ID)
	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("error creating session: %v", err)
	}

	if err = store.Set(ctx, consts.KeyPaymentSessionID, s.ID); err != nil {
		return nil, fmt.Errorf("error saving payment session, %w", err)
	}
	RecordPaymentStatus(ctx, store, consts.PaymentStatusPending)

	return &dto.CreatePaymentResponse{SessionID: s.ID, ClientSecret: s.ClientSecret}, nil
}

// GetPaymentInfo refreshes the payment status of the session's own checkout.
func (c *Payment) GetPaymentInfo(ctx context.Context, store interfaces.FlagStore, sessionID string) (*dto.PaymentStatusResponse, error) {
	expected, ok, err := store.Get(ctx, consts.KeyPaymentSessionID)
	if err != nil {
		return nil, fmt.Errorf("error reading payment session, %w", err)
	}
	if !ok || expected != sessionID {
		return nil, errs.PreconditionError{Message: fmt.Sprintf("unknown payment session %s", sessionID)}
	}

	s, err := session.Get(sessionID, &stripe.CheckoutSessionParams{})
	if err != nil {
		return nil, fmt.Errorf("error getting session info, %v", err)
	}

	RecordPaymentStatus(ctx, store, ResolvePaymentStatus(s.Status, s.PaymentStatus))

	return &dto.PaymentStatusResponse{
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
	}, nil
}

func (c *Payment) Webhook(ctx context.Context, req []byte, stripeHeader string) error {
	event, err := webhook.ConstructEvent(req, stripeHeader, c.cfg.webhookKey)
	if err != nil {
		return fmt.Errorf("error creating event, %v", err)
	}

	slog.Info("Handling event", "type", event.Type)

	switch event.Type {
	case "checkout.session.completed",
		"checkout.session.async_payment_succeeded",
		"checkout.session.async_payment_failed",
		"checkout.session.expired":
		return c.handleCheckoutSession(ctx, event)

	default:
		return fmt.Errorf("unhandled event type: %s", event.Type)
	}
}

func (c *Payment) handleCheckoutSession(ctx context.Context, event stripe.Event) error {
	var s stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return fmt.Errorf("error parsing checkout session, %v", err)
	}
	namespace := s.Metadata[MetadataSession]
	if namespace == "" {
		return errors.New("checkout session has no onboarding session metadata")
	}

	status := ResolvePaymentStatus(s.Status, s.PaymentStatus)
	if event.Type == "checkout.session.async_payment_failed" {
		status = consts.PaymentStatusFailed
	}
	RecordPaymentStatus(ctx, c.stores(namespace), status)

	slog.Info("Checkout session handled", "session", s.ID, "namespace", namespace, "status", status)
	return nil
}

func ResolvePaymentStatus(status stripe.CheckoutSessionStatus, paymentStatus stripe.CheckoutSessionPaymentStatus) consts.PaymentStatus {
	switch {
	case status == stripe.CheckoutSessionStatusComplete &&
		(paymentStatus == stripe.CheckoutSessionPaymentStatusPaid || paymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired):
		return consts.PaymentStatusSucceeded
	case status == stripe.CheckoutSessionStatusExpired:
		return consts.PaymentStatusFailed
	default:
		return consts.PaymentStatusPending
	}
}

// RecordPaymentStatus stores the status and marks the payment step on success. A succeeded payment
// is never downgraded by a late event.
func RecordPaymentStatus(ctx context.Context, store interfaces.FlagStore, status consts.PaymentStatus) {
	current, _, err := store.Get(ctx, consts.KeyPaymentStatus)
	if err != nil {
		slog.Warn("failed to read payment status", "err", err)
	}
	if consts.PaymentStatus(current) == consts.PaymentStatusSucceeded && status != consts.PaymentStatusSucceeded {
		slog.Info("ignoring payment status after success", "status", status)
		return
	}

	if err := store.Set(ctx, consts.KeyPaymentStatus, string(status)); err != nil {
		slog.Warn("failed to save payment status", "status", status, "err", err)
		return
	}
	if status == consts.PaymentStatusSucceeded {
		steps.NewTracker(store).MarkStepCompleted(ctx, consts.StepPayment)
	}
}
