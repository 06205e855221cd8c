package processors_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/events"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/processors"
	"github.com/stretchr/testify/require"
)

type sinkStub struct {
	delivered []events.NotificationRequested
	err       error
}

func (s *sinkStub) Deliver(_ context.Context, event events.NotificationRequested) error {
	s.delivered = append(s.delivered, event)
	return s.err
}

func Test_DeliverNotification_Given_Event_When_Handled_Then_Sink_Receives_It(t *testing.T) {
	sink := &sinkStub{}
	uow, err := processors.NewDeliverNotification(sink).Handle(context.Background(),
		events.NotificationRequested{Namespace: "session-1", Title: "Plan assigned"})

	require.NoError(t, err)
	require.Nil(t, uow)
	require.Len(t, sink.delivered, 1)
}

func Test_DeliverNotification_Given_No_Namespace_When_Handled_Then_Errors(t *testing.T) {
	sink := &sinkStub{}
	_, err := processors.NewDeliverNotification(sink).Handle(context.Background(), events.NotificationRequested{Title: "x"})

	require.Error(t, err)
	require.Empty(t, sink.delivered)
}

func Test_DeliverNotification_Given_Sink_Failure_When_Handled_Then_Error_Is_Returned(t *testing.T) {
	boom := errors.New("boom")
	_, err := processors.NewDeliverNotification(&sinkStub{err: boom}).Handle(context.Background(),
		events.NotificationRequested{Namespace: "session-1"})

	require.ErrorIs(t, err, boom)
}
