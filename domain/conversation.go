package domain

import "time"

// Conversation is a persistent two-party messaging thread. LastMessage and
// LastMessageTime are a display cache, not authoritative data: the message
// log is the source of truth and the cache is refreshed best-effort on send.
type Conversation struct {
	ID              string
	Participants    [2]string
	LastMessage     *string
	LastMessageTime *time.Time
	CreatedAt       time.Time
}

// Has reports whether userID is one of the two participants.
func (c Conversation) Has(userID string) bool {
	return c.Participants[0] == userID || c.Participants[1] == userID
}

// Other returns the participant that is not userID.
func (c Conversation) Other(userID string) string {
	if c.Participants[0] == userID {
		return c.Participants[1]
	}
	return c.Participants[0]
}

// PairKey returns the deterministic identity of an unordered participant
// pair. Both orderings of the same pair produce the same key, which is what
// makes insert-if-absent conversation creation possible.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}
