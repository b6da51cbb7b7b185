//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"plaza/domain"
	"plaza/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	Create(user domain.User) (domain.User, error)
	Save(user domain.User) (domain.User, error)
	FindByUsername(username string) (domain.User, error)
	FindByID(id uuid.UUID) (domain.User, error)
	GetAll() ([]domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

func userKey(username string) []byte {
	return []byte("user:" + username)
}

// Create persists a new user. The username is the key, so the uniqueness
// invariant is enforced inside a single badger transaction: if the key
// already exists the whole write is rejected with ErrUserAlreadyExists.
func (u UserRepository) Create(user domain.User) (domain.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(user)
	if err != nil {
		return domain.User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		key := userKey(user.Username)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Save upserts a user record, overwriting any existing value.
func (u UserRepository) Save(user domain.User) (domain.User, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return domain.User{}, fmt.Errorf("marshal failed: %w", err)
	}
	err = u.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(user.Username), data)
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (u UserRepository) FindByUsername(username string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(username))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return errors.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// FindByID scans the collection; the store is keyed by username, and
// sessions carry the stable account id rather than the mutable-looking
// username.
func (u UserRepository) FindByID(id uuid.UUID) (domain.User, error) {
	users, err := u.GetAll()
	if err != nil {
		return domain.User{}, err
	}
	for _, user := range users {
		if user.ID == id {
			return user, nil
		}
	}
	return domain.User{}, errors.ErrNotFound
}

func (u UserRepository) GetAll() ([]domain.User, error) {
	var users []domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := []byte("user:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var user domain.User
				if err := json.Unmarshal(val, &user); err != nil {
					return err
				}
				users = append(users, user)
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
	return users, nil
}
