package payment_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/commands/payment"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/steps"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/catalog"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/flags"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const webhookSecret = "whsec_test_secret"

func TestResolvePaymentStatus(t *testing.T) {
	cases := []struct {
		status  stripe.CheckoutSessionStatus
		payment stripe.CheckoutSessionPaymentStatus
		want    consts.PaymentStatus
	}{
		{stripe.CheckoutSessionStatusComplete, stripe.CheckoutSessionPaymentStatusPaid, consts.PaymentStatusSucceeded},
		{stripe.CheckoutSessionStatusComplete, stripe.CheckoutSessionPaymentStatusNoPaymentRequired, consts.PaymentStatusSucceeded},
		{stripe.CheckoutSessionStatusComplete, stripe.CheckoutSessionPaymentStatusUnpaid, consts.PaymentStatusPending},
		{stripe.CheckoutSessionStatusOpen, stripe.CheckoutSessionPaymentStatusUnpaid, consts.PaymentStatusPending},
		{stripe.CheckoutSessionStatusExpired, stripe.CheckoutSessionPaymentStatusUnpaid, consts.PaymentStatusFailed},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, payment.ResolvePaymentStatus(tc.status, tc.payment), "%s/%s", tc.status, tc.payment)
	}
}

func TestRecordPaymentStatusNeverDowngradesSuccess(t *testing.T) {
	ctx := context.Background()
	store := flags.NewMemoryStore()

	payment.RecordPaymentStatus(ctx, store, consts.PaymentStatusSucceeded)
	payment.RecordPaymentStatus(ctx, store, consts.PaymentStatusFailed)

	status, _, err := store.Get(ctx, consts.KeyPaymentStatus)
	require.NoError(t, err)
	require.Equal(t, string(consts.PaymentStatusSucceeded), status)
	require.True(t, steps.NewTracker(store).IsStepCompleted(ctx, consts.StepPayment))
}

func Test_Webhook_Given_Completed_Checkout_When_Signed_Then_Session_Payment_Succeeds(t *testing.T) {
	ctx := context.Background()
	backend := flags.NewMemory()
	sut := payment.NewPayment(catalog.NewStatic(nil), func(ns string) interfaces.FlagStore {
		return flags.Scope(backend, ns)
	}, payment.NewPaymentConfigFor("sk_test", webhookSecret, "http://localhost:3000"))

	body := []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"api_version": %q,
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_1",
			"object": "checkout.session",
			"status": "complete",
			"payment_status": "paid",
			"metadata": {"onboarding_session": "session-1"}
		}}
	}`, stripe.APIVersion))
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   body,
		Secret:    webhookSecret,
		Timestamp: time.Now(),
	})

	require.NoError(t, sut.Webhook(ctx, signed.Payload, signed.Header))

	store := flags.Scope(backend, "session-1")
	status, ok, err := store.Get(ctx, consts.KeyPaymentStatus)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, string(consts.PaymentStatusSucceeded), status)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	sut := payment.NewPayment(catalog.NewStatic(nil), func(ns string) interfaces.FlagStore {
		return flags.NewMemoryStore()
	}, payment.NewPaymentConfigFor("sk_test", webhookSecret, ""))

	require.Error(t, sut.Webhook(context.Background(), []byte(`{}`), "t=1,v1=deadbeef"))
}

func TestCreatePaymentRequiresAcknowledgedSummary(t *testing.T) {
	ctx := context.Background()
	store := flags.NewMemoryStore()
	sut := payment.NewPayment(catalog.NewStatic(nil), func(ns string) interfaces.FlagStore { return store },
		payment.NewPaymentConfigFor("sk_test", webhookSecret, ""))

	_, err := sut.CreatePayment(ctx, store, "session-1")
	require.Error(t, err)

	require.NoError(t, store.Set(ctx, consts.KeyTenantID, "tenant-001"))
	require.NoError(t, store.Set(ctx, consts.KeyCachedPlanData, `{"selectedPlan":{"id":1},"selectedAddons":[]}`))
	_, err = sut.CreatePayment(ctx, store, "session-1")
	require.ErrorContains(t, err, "plan summary")
}
