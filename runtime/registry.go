package runtime

import (
	"sync"

	"givelink/contract"
)

type Set map[string]struct{}

// Registry tracks live subscriptions: which participant is connected, and
// which conversations each of them currently listens to.
type Registry struct {
	mu           sync.RWMutex
	Sessions     map[string]contract.EventSink // participant -> live connection
	Participants map[string]Set                // conversation -> participants
}

func NewRegistry() *Registry {
	return &Registry{
		Sessions:     make(map[string]contract.EventSink),
		Participants: make(map[string]Set),
	}
}

// SinksFor resolves the live connections of one conversation in two steps:
// membership first, then the session directory. A participant subscribed to
// several conversations still owns a single connection entry.
// Returns nil when nobody is listening.
func (r *Registry) SinksFor(conversationID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.Participants[conversationID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for participantID := range members {
		if sink, exists := r.Sessions[participantID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a participant's connection and attaches it to a
// conversation. The membership set is created on the fly when needed.
func (r *Registry) Subscribe(participantID, conversationID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Sessions[participantID] = sink

	if _, ok := r.Participants[conversationID]; !ok {
		r.Participants[conversationID] = make(Set)
	}
	r.Participants[conversationID][participantID] = struct{}{}
}

// Unsubscribe drops a participant's session and conversation membership.
// Empty membership sets are removed so the map doesn't grow forever.
func (r *Registry) Unsubscribe(participantID, conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Sessions, participantID)

	if members, ok := r.Participants[conversationID]; ok {
		delete(members, participantID)

		if len(members) == 0 {
			delete(r.Participants, conversationID)
		}
	}
}
