package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"givelink/contract"
	"givelink/domain/event"
	"givelink/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEventFanout_Delivers_To_Subscribers_And_Permanent_Sinks(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	mockSink := mocks.NewMockEventSink(ctrl)
	permanentSink := mocks.NewMockEventSink(ctrl)
	subscriberSinks := []contract.EventSink{mockSink, mockSink}

	fanout := NewEventFanout(log, mockRegistry, []contract.EventSink{permanentSink}, nil, 10*time.Second)

	evt := event.MessageSent{ID: uuid.New(), Conversation: uuid.NewString(), SenderID: "alice", Text: "hello"}

	var delivered atomic.Int32
	// Given two live subscribers exist for the conversation
	mockRegistry.EXPECT().SinksFor(evt.Conversation).Return(subscriberSinks).Times(1)
	// Given subscriber and permanent sinks are consumed
	mockSink.EXPECT().Consume(gomock.Any(), evt).Do(
		func(ctx context.Context, e event.DomainEvent) {
			delivered.Add(1)
		}).Return(nil).Times(2)
	permanentSink.EXPECT().Consume(gomock.Any(), evt).Do(
		func(ctx context.Context, e event.DomainEvent) {
			delivered.Add(1)
		}).Return(nil).Times(1)

	// When the event goes through the fanout
	fanout.Fanout(evt)

	// Then every sink saw it exactly once
	req.Equal(int32(3), delivered.Load())
}

func TestEventFanout_SinkTimeout(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	mockSink := mocks.NewMockEventSink(ctrl)

	sinkTimeout := 20 * time.Millisecond
	fanout := NewEventFanout(log, mockRegistry, nil, nil, sinkTimeout)

	evt := event.MessageSent{ID: uuid.New(), Conversation: uuid.NewString(), SenderID: "alice", Text: "hello"}

	mockRegistry.EXPECT().SinksFor(evt.Conversation).Return([]contract.EventSink{mockSink}).Times(1)
	// Given a sink that never drains: the per-delivery context must expire
	mockSink.EXPECT().Consume(gomock.Any(), evt).
		DoAndReturn(func(ctx context.Context, e event.DomainEvent) error {
			<-ctx.Done()
			return ctx.Err()
		}).Times(1)

	start := time.Now()
	fanout.Fanout(evt)

	// Then the stalled sink was abandoned after the timeout, not forever
	req.Less(time.Since(start), 1*time.Second)
}

func TestEventFanout_Run_Stops_On_Context_Cancel(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	events := make(chan event.DomainEvent, 1)
	fanout := NewEventFanout(log, mockRegistry, nil, events, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		req.NoError(fanout.Run(ctx))
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		req.Fail("Fanout worker should stop when the context is canceled")
	}
}
