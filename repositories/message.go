//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"plaza/domain"
	"plaza/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	Save(message domain.Message) (domain.Message, error)
	GetAll() ([]domain.Message, error)
	FindByID(id uuid.UUID) (domain.Message, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// messageKey is formatted as "msg:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two
//     messages arrive at the same nanosecond.
func messageKey(message domain.Message) []byte {
	return []byte(fmt.Sprintf("msg:%019d:%s", message.At.UnixNano(), message.ID))
}

// Save appends a message. Messages are never updated or deleted; a zero
// ID or timestamp is assigned here so the stored record is complete.
func (m MessageRepository) Save(message domain.Message) (domain.Message, error) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.At.IsZero() {
		message.At = time.Now().UTC()
	}

	data, err := json.Marshal(message)
	if err != nil {
		return domain.Message{}, fmt.Errorf("marshal failed: %w", err)
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(message), data)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// GetAll retrieves the full message set using a prefix scan. Thanks to
// the padded timestamp in the key, messages come back sorted by time.
func (m MessageRepository) GetAll() ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte("msg:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var message domain.Message
				if err := json.Unmarshal(val, &message); err != nil {
					return err
				}
				messages = append(messages, message)
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
	return messages, nil
}

// FindByID scans the collection for a single message. The key embeds the
// timestamp, so a direct point lookup by id alone is not possible.
func (m MessageRepository) FindByID(id uuid.UUID) (domain.Message, error) {
	messages, err := m.GetAll()
	if err != nil {
		return domain.Message{}, err
	}
	for _, message := range messages {
		if message.ID == id {
			return message, nil
		}
	}
	return domain.Message{}, errors.ErrNotFound
}
