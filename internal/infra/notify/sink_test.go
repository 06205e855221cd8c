package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/errs"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/events"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/notify"
	"github.com/stretchr/testify/require"
)

var event = events.NotificationRequested{
	Namespace:   "session-1",
	Title:       "Plan assigned",
	Description: "Pro plan has been assigned to your organization",
	Type:        consts.NotificationSuccess,
	CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
}

func TestWebhookSinkPostsJSON(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	err := notify.NewWebhookSink(srv.URL, time.Second).Deliver(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "session-1", got["namespace"])
	require.Equal(t, "success", got["type"])
}

func TestWebhookSinkClassifiesFailures(t *testing.T) {
	status := http.StatusServiceUnavailable
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()
	sink := notify.NewWebhookSink(srv.URL, time.Second)

	var r errs.RetryableError
	err := sink.Deliver(context.Background(), event)
	require.True(t, errors.As(err, &r))

	status = http.StatusBadRequest
	err = sink.Deliver(context.Background(), event)
	require.Error(t, err)
	require.False(t, errors.As(err, &r))
}

type failingSink struct{ err error }

func (f failingSink) Deliver(context.Context, events.NotificationRequested) error { return f.err }

func TestSinksJoinErrors(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, notify.Sinks{notify.LogSink{}}.Deliver(ctx, event))

	permanent := errors.New("rejected")
	err := notify.Sinks{notify.LogSink{}, failingSink{permanent}}.Deliver(ctx, event)
	require.ErrorIs(t, err, permanent)
	var r errs.RetryableError
	require.False(t, errors.As(err, &r))

	err = notify.Sinks{failingSink{permanent}, failingSink{errs.RetryableError{Err: errors.New("down")}}}.Deliver(ctx, event)
	require.True(t, errors.As(err, &r))
	require.ErrorIs(t, err, permanent)
}
