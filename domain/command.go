package domain

// PostMessageCommand carries a sending intent from the transport layer to
// the chat service. The timestamp is assigned server-side, not here.
type PostMessageCommand struct {
	ConversationID string
	SenderID       string
	Text           string
}

// StartConversationCommand asks for the conversation between the actor and
// the target, creating it when absent.
type StartConversationCommand struct {
	ActorID  string
	TargetID string
}

// SearchCommand captures the three filters of the matching flow. Text is the
// optional free-text query served by the profile index.
type SearchCommand struct {
	Location string
	Cause    string
	Text     string
}
