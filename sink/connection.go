package sink

import (
	"context"

	"givelink/domain/event"
)

// ConnectionSink bridges the fanout pipeline and one live connection.
// The transport handler owns the other side of the channel and forwards
// events to the client.
type ConnectionSink struct {
	Events chan event.DomainEvent
}

func NewConnectionSink(bufferSize int) *ConnectionSink {
	return &ConnectionSink{Events: make(chan event.DomainEvent, bufferSize)}
}

// Consume is called by fanout.
// Redirects the event through the channel owned by the connection handler.
// A full buffer means the client reads too slowly: the event is dropped
// rather than stalling the pipeline.
func (s *ConnectionSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
