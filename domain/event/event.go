package event

import (
	"time"

	"givelink/domain"

	"github.com/google/uuid"
)

// DomainEvent is anything routable to the subscribers of one conversation.
type DomainEvent interface {
	ConversationID() string
}

// MessageSent is published after a message has been persisted. Subscribers
// of the conversation receive it through the fanout pipeline.
type MessageSent struct {
	ID           uuid.UUID
	Conversation string
	SenderID     string
	Text         string
	At           time.Time
}

func (m MessageSent) ConversationID() string {
	return m.Conversation
}

// ConversationStarted is published when a bootstrap call creates a new
// conversation record.
type ConversationStarted struct {
	Conversation domain.Conversation
}

func (c ConversationStarted) ConversationID() string {
	return c.Conversation.ID
}
