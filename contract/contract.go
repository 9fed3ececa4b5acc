//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"givelink/domain/event"
)

// Worker doesn't protect itself.
// Can be silly, focused.
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives domain events from the fanout pipeline. Implementations
// must not block past the context deadline given to Consume.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry tracks which participant subscription belongs to which
// conversation so that fanout can route conversation-scoped events.
type IRegistry interface {
	SinksFor(conversationID string) []EventSink
	Subscribe(participantID, conversationID string, sink EventSink)
	Unsubscribe(participantID, conversationID string)
}

// IPublisher is the producer side of the delivery pipeline.
type IPublisher interface {
	Publish(e event.DomainEvent)
}
