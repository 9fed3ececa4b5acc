// This file defines Message entities and related rules.
// Messages are immutable once created and ordered by server timestamp.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event within a conversation.
type Message struct {
	ID             uuid.UUID
	ConversationID string
	SenderID       string
	Text           string
	SentAt         time.Time // server-assigned, UTC
}
