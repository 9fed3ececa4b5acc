package repositories

import (
	"testing"
	"time"

	"givelink/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Store_And_List_Messages_In_Order(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t))

	conversationID := uuid.New().String()
	at := time.Now().UTC()
	messages := []domain.Message{
		{ID: uuid.New(), ConversationID: conversationID, SenderID: "alice", Text: "hello", SentAt: at},
		{ID: uuid.New(), ConversationID: conversationID, SenderID: "bob", Text: "hi there", SentAt: at.Add(1 * time.Minute)},
		{ID: uuid.New(), ConversationID: conversationID, SenderID: "alice", Text: "how can I help?", SentAt: at.Add(2 * time.Minute)},
	}
	// Store out of order: the key layout must restore chronological order.
	for _, i := range []int{2, 0, 1} {
		req.NoError(repository.Store(messages[i]))
	}

	fetched, err := repository.ListByConversation(conversationID)
	req.NoError(err)
	req.Len(fetched, len(messages))
	req.Equal(messages, fetched)
}

func Test_List_Messages_Empty_Conversation(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t))

	fetched, err := repository.ListByConversation(uuid.New().String())
	req.NoError(err)
	req.Empty(fetched)
	req.NotNil(fetched) // an empty history is a state, not an absence
}

func Test_Messages_Are_Scoped_To_Their_Conversation(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t))

	convA := uuid.New().String()
	convB := uuid.New().String()
	at := time.Now().UTC()

	req.NoError(repository.Store(domain.Message{ID: uuid.New(), ConversationID: convA, SenderID: "alice", Text: "for A", SentAt: at}))
	req.NoError(repository.Store(domain.Message{ID: uuid.New(), ConversationID: convB, SenderID: "bob", Text: "for B", SentAt: at}))

	fetched, err := repository.ListByConversation(convA)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("for A", fetched[0].Text)
}

func Test_Same_Timestamp_Keeps_Both_Messages(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t))

	conversationID := uuid.New().String()
	at := time.Now().UTC()

	req.NoError(repository.Store(domain.Message{ID: uuid.New(), ConversationID: conversationID, SenderID: "alice", Text: "first", SentAt: at}))
	req.NoError(repository.Store(domain.Message{ID: uuid.New(), ConversationID: conversationID, SenderID: "bob", Text: "second", SentAt: at}))

	fetched, err := repository.ListByConversation(conversationID)
	req.NoError(err)
	req.Len(fetched, 2)
}
