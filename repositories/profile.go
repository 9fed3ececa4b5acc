//go:generate go run go.uber.org/mock/mockgen -source=profile.go -destination=../mocks/mock_profile_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"givelink/domain"
	"givelink/errors"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IProfileRepository interface {
	Save(profile domain.Profile) error
	Get(userID string) (domain.Profile, error)
	GetByEmail(email string) (domain.Profile, error)
	QueryCompletedByRole(role domain.Role) ([]domain.Profile, error)
	SearchText(ctx context.Context, text string, limit int) ([]string, error)
}

type ProfileRepository struct {
	db    *badger.DB
	index *bluge.Writer
	log   *slog.Logger
}

func NewProfileRepository(db *badger.DB, index *bluge.Writer, log *slog.Logger) IProfileRepository {
	return &ProfileRepository{db: db, index: index, log: log}
}

type profileRecord struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Bio       string    `json:"bio"`
	Causes    []string  `json:"causes"`
	ImageURL  string    `json:"image_url,omitempty"`
	Complete  bool      `json:"complete"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Save writes the profile record, its email index entry, and refreshes the
// full-text index. Badger is the source of truth; the Bluge index only
// accelerates free-text lookups and is rebuilt from Badger on reindex.
func (p ProfileRepository) Save(profile domain.Profile) error {
	data, err := json.Marshal(fromProfile(profile))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	err = p.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte("profile:"+profile.UserID), data); err != nil {
			return err
		}
		return txn.Set([]byte("profileemail:"+profile.Email), []byte(profile.UserID))
	})
	if err != nil {
		return err
	}

	doc := bluge.NewDocument(profile.UserID).
		AddField(bluge.NewTextField("name", profile.Name)).
		AddField(bluge.NewTextField("location", profile.Location)).
		AddField(bluge.NewTextField("bio", profile.Bio)).
		AddField(bluge.NewKeywordField("causes", strings.Join(profile.Causes, " ")))

	if err := p.index.Update(doc.ID(), doc); err != nil {
		// The record is durable; a stale index entry only degrades free-text
		// search until the next save.
		p.log.Warn("profile index update failed", "user_id", profile.UserID, "error", err)
	}
	return nil
}

func (p ProfileRepository) Get(userID string) (domain.Profile, error) {
	var record profileRecord
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("profile:" + userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Profile{}, errors.ErrProfileNotFound
	}
	if err != nil {
		return domain.Profile{}, err
	}
	return toProfile(record), nil
}

func (p ProfileRepository) GetByEmail(email string) (domain.Profile, error) {
	var userID string
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("profileemail:" + email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			userID = string(val)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Profile{}, errors.ErrProfileNotFound
	}
	if err != nil {
		return domain.Profile{}, err
	}
	return p.Get(userID)
}

// QueryCompletedByRole is the store-side filter of the matching flow: all
// profiles with the given role and the completion flag set. Further
// narrowing (location substring, cause membership) happens in memory.
func (p ProfileRepository) QueryCompletedByRole(role domain.Role) ([]domain.Profile, error) {
	var records []profileRecord
	err := p.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("profile:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record profileRecord
				if err := json.Unmarshal(val, &record); err != nil {
					return err
				}
				if record.Complete && record.Role == string(role) {
					records = append(records, record)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return lo.Map(records, func(record profileRecord, _ int) domain.Profile {
		return toProfile(record)
	}), nil
}

// SearchText queries the full-text index over name, location and bio and
// returns matching user IDs, best first.
func (p ProfileRepository) SearchText(ctx context.Context, text string, limit int) ([]string, error) {
	reader, err := p.index.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	query := bluge.NewBooleanQuery().
		AddShould(bluge.NewMatchQuery(text).SetField("name")).
		AddShould(bluge.NewMatchQuery(text).SetField("location")).
		AddShould(bluge.NewMatchQuery(text).SetField("bio")).
		SetMinShould(1)

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var ids []string
	match, err := iterator.Next()
	for err == nil && match != nil {
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, string(value))
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func fromProfile(profile domain.Profile) profileRecord {
	return profileRecord{
		UserID:    profile.UserID,
		Email:     profile.Email,
		Role:      string(profile.Role),
		Name:      profile.Name,
		Location:  profile.Location,
		Bio:       profile.Bio,
		Causes:    profile.Causes,
		ImageURL:  profile.ImageURL,
		Complete:  profile.Complete,
		UpdatedAt: profile.UpdatedAt,
	}
}

func toProfile(record profileRecord) domain.Profile {
	return domain.Profile{
		UserID:    record.UserID,
		Email:     record.Email,
		Role:      domain.Role(record.Role),
		Name:      record.Name,
		Location:  record.Location,
		Bio:       record.Bio,
		Causes:    record.Causes,
		ImageURL:  record.ImageURL,
		Complete:  record.Complete,
		UpdatedAt: record.UpdatedAt,
	}
}
