package sink

import (
	"context"

	"givelink/domain/event"
	"givelink/observability"
)

// MetricsSink counts delivered events. Registered as a permanent sink so it
// sees the traffic of every conversation.
type MetricsSink struct {
	monitor *observability.Monitor
}

func NewMetricsSink(monitor *observability.Monitor) *MetricsSink {
	return &MetricsSink{monitor: monitor}
}

func (s *MetricsSink) Consume(ctx context.Context, e event.DomainEvent) error {
	switch e.(type) {
	case event.MessageSent:
		s.monitor.IncrMessagesSent()
	case event.ConversationStarted:
		s.monitor.IncrConversationsStarted()
	}
	return nil
}
