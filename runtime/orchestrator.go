// Package runtime handles event propagation between the service layer and
// the live subscribers. It orchestrates the pipeline without containing
// business logic or domain rules.
package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"givelink/contract"
	"givelink/domain/event"
	"givelink/runtime/workers"
)

type Orchestrator struct {
	mu             sync.Mutex
	log            *slog.Logger
	permanentSinks []contract.EventSink
	supervisor     contract.ISupervisor
	registry       contract.IRegistry
	events         chan event.DomainEvent
	sinkTimeout    time.Duration
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	registry contract.IRegistry, bufferSize int, sinkTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		log:         log,
		supervisor:  supervisor,
		registry:    registry,
		events:      make(chan event.DomainEvent, bufferSize),
		sinkTimeout: sinkTimeout,
	}
}

// Add registers sinks that receive every event regardless of conversation.
func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.permanentSinks = append(o.permanentSinks, sinks...)
}

// Publish hands an event to the pipeline. Never blocks the caller: when the
// buffer is full the event is dropped, delivery is best-effort by contract.
func (o *Orchestrator) Publish(e event.DomainEvent) {
	select {
	case o.events <- e:
	default:
		o.log.Warn("Event channel full, dropping event", "conversation", e.ConversationID())
	}
}

// Start wires the fanout worker under supervision and blocks until the
// supervisor winds down. The lock covers only the wiring, not the run.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	fanoutWorker := workers.NewEventFanout(o.log, o.registry, o.permanentSinks, o.events, o.sinkTimeout)
	o.supervisor.Add(fanoutWorker)
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
	return nil
}

// Stop initiates a graceful shutdown of the orchestrator.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
