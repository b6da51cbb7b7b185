package repositories

import (
	"log/slog"
	"testing"
	"time"

	"plaza/domain"
	"plaza/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Record_Multiple_Messages_In_Order(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	inputs := []domain.Message{
		{Author: "alice", Content: "hola", At: at},
		{Author: "bob", Content: "que tal", At: at.Add(1 * time.Minute)},
		{Author: "clara", Content: "bien", At: at.Add(2 * time.Minute)},
	}
	var stored []domain.Message
	for _, message := range inputs {
		saved, err := repository.Save(message)
		req.NoError(err)
		req.NotEmpty(saved.ID)
		stored = append(stored, saved)
	}

	fetched, err := repository.GetAll()
	req.NoError(err)
	req.Equal(stored, fetched)
}

func Test_Save_Assigns_ID_And_Timestamp(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	saved, err := repository.Save(domain.Message{Author: "alice", Content: "hi"})
	req.NoError(err)
	req.NotEqual(uuid.Nil, saved.ID)
	req.False(saved.At.IsZero())
}

func Test_Messages_Same_Instant_Are_Not_Lost(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	// Two messages at the same nanosecond: the uuid in the key keeps
	// them distinct.
	at := time.Now().UTC()
	_, err := repository.Save(domain.Message{Author: "alice", Content: "first", At: at})
	req.NoError(err)
	_, err = repository.Save(domain.Message{Author: "bob", Content: "second", At: at})
	req.NoError(err)

	fetched, err := repository.GetAll()
	req.NoError(err)
	req.Len(fetched, 2)
}

func Test_Find_Message_By_ID(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	saved, err := repository.Save(domain.Message{Author: "alice", Content: "hi"})
	req.NoError(err)

	found, err := repository.FindByID(saved.ID)
	req.NoError(err)
	req.Equal(saved, found)

	_, err = repository.FindByID(uuid.New())
	req.ErrorIs(err, errors.ErrNotFound)
}
