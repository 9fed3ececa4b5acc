package repositories

import (
	"sync"
	"testing"
	"time"

	"givelink/errors"

	"github.com/stretchr/testify/require"
)

func Test_GetOrCreate_Is_Idempotent_Per_Pair(t *testing.T) {
	req := require.New(t)
	repository := NewConversationRepository(openTestDB(t))

	first, created, err := repository.GetOrCreate("alice", "bob")
	req.NoError(err)
	req.True(created)
	req.NotEmpty(first.ID)

	// Same pair again, from the other side: same conversation, no new record.
	second, created, err := repository.GetOrCreate("bob", "alice")
	req.NoError(err)
	req.False(created)
	req.Equal(first.ID, second.ID)

	conversations, err := repository.ListByParticipant("alice")
	req.NoError(err)
	req.Len(conversations, 1)
}

func Test_GetOrCreate_Concurrent_Bootstrap_Converges(t *testing.T) {
	req := require.New(t)
	repository := NewConversationRepository(openTestDB(t))

	// Both sides bootstrap at the same time. A transaction losing the write
	// conflict must retry against the now-existing pair key, never fail.
	var wg sync.WaitGroup
	ids := make([]string, 2)
	errs := make([]error, 2)
	for i, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		wg.Add(1)
		go func(i int, actor, target string) {
			defer wg.Done()
			conversation, _, err := repository.GetOrCreate(actor, target)
			ids[i], errs[i] = conversation.ID, err
		}(i, pair[0], pair[1])
	}
	wg.Wait()

	req.NoError(errs[0])
	req.NoError(errs[1])
	req.Equal(ids[0], ids[1])

	conversations, err := repository.ListByParticipant("alice")
	req.NoError(err)
	req.Len(conversations, 1)
}

func Test_ListByParticipant_Only_Own_Conversations(t *testing.T) {
	req := require.New(t)
	repository := NewConversationRepository(openTestDB(t))

	_, _, err := repository.GetOrCreate("alice", "bob")
	req.NoError(err)
	_, _, err = repository.GetOrCreate("alice", "carol")
	req.NoError(err)
	_, _, err = repository.GetOrCreate("bob", "carol")
	req.NoError(err)

	conversations, err := repository.ListByParticipant("alice")
	req.NoError(err)
	req.Len(conversations, 2)
	for _, conversation := range conversations {
		req.True(conversation.Has("alice"))
	}
}

func Test_New_Conversation_Has_Empty_Cache(t *testing.T) {
	req := require.New(t)
	repository := NewConversationRepository(openTestDB(t))

	conversation, _, err := repository.GetOrCreate("alice", "bob")
	req.NoError(err)
	req.Nil(conversation.LastMessage)
	req.Nil(conversation.LastMessageTime)
}

func Test_UpdateLastMessage(t *testing.T) {
	req := require.New(t)
	repository := NewConversationRepository(openTestDB(t))

	conversation, _, err := repository.GetOrCreate("alice", "bob")
	req.NoError(err)

	at := time.Now().UTC()
	req.NoError(repository.UpdateLastMessage(conversation.ID, "see you tomorrow", at))

	fetched, err := repository.Get(conversation.ID)
	req.NoError(err)
	req.NotNil(fetched.LastMessage)
	req.Equal("see you tomorrow", *fetched.LastMessage)
	req.NotNil(fetched.LastMessageTime)
	req.Equal(at, *fetched.LastMessageTime)
}

func Test_UpdateLastMessage_Unknown_Conversation(t *testing.T) {
	req := require.New(t)
	repository := NewConversationRepository(openTestDB(t))

	err := repository.UpdateLastMessage("missing", "hello", time.Now().UTC())
	req.ErrorIs(err, errors.ErrConversationNotFound)
}

func Test_Get_Unknown_Conversation(t *testing.T) {
	req := require.New(t)
	repository := NewConversationRepository(openTestDB(t))

	_, err := repository.Get("missing")
	req.ErrorIs(err, errors.ErrConversationNotFound)
}
