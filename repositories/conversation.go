//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"givelink/domain"
	"givelink/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IConversationRepository interface {
	Get(id string) (domain.Conversation, error)
	ListByParticipant(userID string) ([]domain.Conversation, error)
	GetOrCreate(actorID, targetID string) (domain.Conversation, bool, error)
	UpdateLastMessage(id, text string, at time.Time) error
}

type ConversationRepository struct {
	db *badger.DB
}

func NewConversationRepository(db *badger.DB) IConversationRepository {
	return &ConversationRepository{db: db}
}

type conversationRecord struct {
	ID              string     `json:"id"`
	Participants    [2]string  `json:"participants"`
	LastMessage     *string    `json:"last_message"`
	LastMessageTime *time.Time `json:"last_message_time"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Keys:
//
//	conv:{id}               -> conversation record
//	convpair:{min}:{max}    -> conversation id, deterministic per unordered pair
//	convuser:{userID}:{id}  -> conversation id, participant index
//
// The pair key is what guarantees at most one conversation per pair: both
// orderings of the same two users resolve to the same key, and creation is
// an insert-if-absent on it inside a single transaction.
func (c ConversationRepository) Get(id string) (domain.Conversation, error) {
	var record conversationRecord
	err := c.db.View(func(txn *badger.Txn) error {
		return readConversation(txn, id, &record)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Conversation{}, errors.ErrConversationNotFound
	}
	if err != nil {
		return domain.Conversation{}, err
	}
	return toConversation(record), nil
}

// ListByParticipant returns every conversation the user takes part in, in
// index order. Sorting for display is the caller's concern.
func (c ConversationRepository) ListByParticipant(userID string) ([]domain.Conversation, error) {
	var records []conversationRecord
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("convuser:" + userID + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var convID string
			err := it.Item().Value(func(val []byte) error {
				convID = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			var record conversationRecord
			if err := readConversation(txn, convID, &record); err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return lo.Map(records, func(record conversationRecord, _ int) domain.Conversation {
		return toConversation(record)
	}), nil
}

// GetOrCreate resolves the conversation for an unordered participant pair,
// creating it when absent. Lookup and insert happen in one transaction, so
// two racing bootstrap calls for the same pair converge on a single record.
// The second return value reports whether a record was created.
func (c ConversationRepository) GetOrCreate(actorID, targetID string) (domain.Conversation, bool, error) {
	record, created, err := c.getOrCreate(actorID, targetID)
	if err == badger.ErrConflict {
		// A racing bootstrap for the same pair committed first. The pair key
		// exists now, the retry resolves to it.
		record, created, err = c.getOrCreate(actorID, targetID)
	}
	if err != nil {
		return domain.Conversation{}, false, err
	}
	return toConversation(record), created, nil
}

func (c ConversationRepository) getOrCreate(actorID, targetID string) (conversationRecord, bool, error) {
	var record conversationRecord
	created := false

	err := c.db.Update(func(txn *badger.Txn) error {
		pairKey := []byte("convpair:" + domain.PairKey(actorID, targetID))

		item, err := txn.Get(pairKey)
		if err == nil {
			var convID string
			if err := item.Value(func(val []byte) error {
				convID = string(val)
				return nil
			}); err != nil {
				return err
			}
			return readConversation(txn, convID, &record)
		}
		if err != badger.ErrKeyNotFound {
			return err
		}

		record = conversationRecord{
			ID:           uuid.New().String(),
			Participants: [2]string{actorID, targetID},
			CreatedAt:    time.Now().UTC(),
		}
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}

		if err := txn.Set([]byte("conv:"+record.ID), data); err != nil {
			return err
		}
		if err := txn.Set(pairKey, []byte(record.ID)); err != nil {
			return err
		}
		for _, participant := range record.Participants {
			if err := txn.Set([]byte("convuser:"+participant+":"+record.ID), []byte(record.ID)); err != nil {
				return err
			}
		}
		created = true
		return nil
	})
	return record, created, err
}

// UpdateLastMessage refreshes the display cache on the conversation record.
// Last write wins: the cache is a hint, the message log is authoritative.
func (c ConversationRepository) UpdateLastMessage(id, text string, at time.Time) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		var record conversationRecord
		if err := readConversation(txn, id, &record); err != nil {
			return err
		}

		record.LastMessage = &text
		record.LastMessageTime = &at

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		return txn.Set([]byte("conv:"+id), data)
	})
	if err == badger.ErrKeyNotFound {
		return errors.ErrConversationNotFound
	}
	return err
}

func readConversation(txn *badger.Txn, id string, record *conversationRecord) error {
	item, err := txn.Get([]byte("conv:" + id))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, record)
	})
}

func toConversation(record conversationRecord) domain.Conversation {
	return domain.Conversation{
		ID:              record.ID,
		Participants:    record.Participants,
		LastMessage:     record.LastMessage,
		LastMessageTime: record.LastMessageTime,
		CreatedAt:       record.CreatedAt,
	}
}
