package repositories

import (
	"testing"

	"plaza/domain"
	"plaza/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Create_And_Find_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	created, err := repository.Create(domain.User{
		Username: "alice",
		Name:     "Alice",
		Address:  "1 Main St",
		Age:      30,
		Phone:    "555-0100",
	})
	req.NoError(err)
	req.NotEmpty(created.ID)
	req.False(created.CreatedAt.IsZero())

	found, err := repository.FindByUsername("alice")
	req.NoError(err)
	req.Equal(created, found)
	req.False(found.Admin)
}

func Test_Create_Duplicate_Username_Is_Rejected(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	// Given alice already exists
	_, err := repository.Create(domain.User{Username: "alice", Name: "Alice"})
	req.NoError(err)

	// When another alice registers
	_, err = repository.Create(domain.User{Username: "alice", Name: "Impostor"})

	// Then creation is denied and the original record survives
	req.ErrorIs(err, errors.ErrUserAlreadyExists)

	all, err := repository.GetAll()
	req.NoError(err)
	req.Len(all, 1)
	req.Equal("Alice", all[0].Name)
}

func Test_Find_Unknown_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.FindByUsername("nobody")
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_Save_Overwrites_Existing_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	created, err := repository.Create(domain.User{Username: "alice", Name: "Alice"})
	req.NoError(err)

	created.Admin = true
	_, err = repository.Save(created)
	req.NoError(err)

	found, err := repository.FindByUsername("alice")
	req.NoError(err)
	req.True(found.Admin)
}
