package projection

import (
	"testing"
	"time"

	"plaza/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMessages_Flattens_Authors(t *testing.T) {
	req := require.New(t)
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	messages := []domain.Message{
		{ID: uuid.New(), Author: "alice", Content: "hola", At: at},
		{ID: uuid.New(), Author: "bob", Content: "que tal", At: at.Add(time.Minute)},
		{ID: uuid.New(), Author: "alice", Content: "bien", At: at.Add(2 * time.Minute)},
	}

	normalized := NormalizeMessages(messages)

	// Distinct authors, first-appearance order.
	req.Equal([]Author{{ID: "alice"}, {ID: "bob"}}, normalized.Authors)
	req.Len(normalized.Messages, 3)
	req.Equal("hola", normalized.Messages[0].Content)
	req.Equal("2026-03-14T15:09:26Z", normalized.Messages[0].At)
}

func TestNormalizeMessages_Is_Deterministic(t *testing.T) {
	req := require.New(t)
	at := time.Now()
	messages := []domain.Message{
		{ID: uuid.New(), Author: "alice", Content: "one", At: at},
		{ID: uuid.New(), Author: "bob", Content: "two", At: at},
	}

	first := NormalizeMessages(messages)
	second := NormalizeMessages(messages)
	req.Equal(first, second)
}

func TestNormalizeMessages_Empty_Collection(t *testing.T) {
	req := require.New(t)
	normalized := NormalizeMessages(nil)
	req.Empty(normalized.Authors)
	req.Empty(normalized.Messages)
}
