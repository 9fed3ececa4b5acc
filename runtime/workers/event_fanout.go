package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"givelink/contract"
	"givelink/domain/event"
)

// EventFanout broadcasts domain events to in-process consumers: the live
// connections subscribed to the event's conversation, plus the permanent
// sinks (metrics, logs) that see everything.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering, durability, or retries. EventFanout is not a message broker.
//
// EventFanout is safe for concurrent use by multiple goroutines.
type EventFanout struct {
	log            *slog.Logger
	registry       contract.IRegistry
	permanentSinks []contract.EventSink
	events         chan event.DomainEvent
	sinkTimeout    time.Duration
}

func NewEventFanout(log *slog.Logger, registry contract.IRegistry,
	permanentSinks []contract.EventSink, events chan event.DomainEvent,
	sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:            log,
		registry:       registry,
		permanentSinks: permanentSinks,
		events:         events,
		sinkTimeout:    sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.Fanout(evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return nil
		}
	}
}

// Fanout delivers one event to every permanent sink and every live
// subscriber of its conversation. Each delivery runs in its own goroutine
// under a timeout so one slow consumer cannot stall the others.
func (w *EventFanout) Fanout(evt event.DomainEvent) {
	sinks := append(w.registry.SinksFor(evt.ConversationID()), w.permanentSinks...)

	var wg sync.WaitGroup
	for _, sink := range sinks {
		wg.Add(1)
		go func(s contract.EventSink) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), w.sinkTimeout)
			defer cancel()
			if err := s.Consume(ctx, evt); err != nil {
				w.log.Warn("Sink rejected event", "conversation", evt.ConversationID(), "error", err)
			}
		}(sink)
	}
	wg.Wait()
}
