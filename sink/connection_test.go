package sink

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"givelink/domain/event"
	"givelink/observability"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestConnectionSink_Forwards_Events(t *testing.T) {
	req := require.New(t)
	s := NewConnectionSink(2)

	evt := event.MessageSent{ID: uuid.New(), Conversation: uuid.NewString(), Text: "hello"}
	req.NoError(s.Consume(context.Background(), evt))

	select {
	case received := <-s.Events:
		req.Equal(evt, received)
	case <-time.After(100 * time.Millisecond):
		req.Fail("Event should be available on the channel")
	}
}

func TestConnectionSink_Drops_When_Buffer_Full(t *testing.T) {
	req := require.New(t)
	s := NewConnectionSink(1)

	first := event.MessageSent{ID: uuid.New(), Conversation: uuid.NewString(), Text: "first"}
	second := event.MessageSent{ID: uuid.New(), Conversation: first.Conversation, Text: "second"}

	req.NoError(s.Consume(context.Background(), first))
	// Buffer is full: the second event is dropped, the pipeline never stalls.
	req.NoError(s.Consume(context.Background(), second))

	req.Equal(first, <-s.Events)
	req.Empty(s.Events)
}

func TestMetricsSink_Counts_Events(t *testing.T) {
	req := require.New(t)
	monitor := observability.NewMonitor(slog.Default())
	s := NewMetricsSink(monitor)

	conversationID := uuid.NewString()
	req.NoError(s.Consume(context.Background(), event.MessageSent{ID: uuid.New(), Conversation: conversationID}))
	req.NoError(s.Consume(context.Background(), event.MessageSent{ID: uuid.New(), Conversation: conversationID}))
	req.NoError(s.Consume(context.Background(), event.ConversationStarted{}))

	stats := monitor.Snapshot()
	req.Equal(uint64(2), stats.MessagesSent)
	req.Equal(uint64(1), stats.ConversationsStarted)
}
