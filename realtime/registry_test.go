package realtime

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegistry_Admit_One_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conn := NewConn("alice", 8, testLogger())

	// Given no connection is registered
	req.Zero(registry.Len())

	// When a connection is admitted
	registry.Admit(conn)

	// Then
	req.Equal(1, registry.Len())
	req.Contains(registry.Snapshot(), conn)
	req.Equal("alice", registry.Snapshot()[0].Identity)
}

func TestRegistry_Admit_Anonymous_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// No identity bound at connect time: admitted all the same.
	conn := NewConn("", 8, testLogger())
	registry.Admit(conn)

	req.Equal(1, registry.Len())
	req.Empty(registry.Snapshot()[0].Identity)
}

func TestRegistry_Remove_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conn1 := NewConn("alice", 8, testLogger())
	conn2 := NewConn("bob", 8, testLogger())

	registry.Admit(conn1)
	registry.Admit(conn2)

	// When one disconnects
	registry.Remove(conn1.ID)

	// Then only the other remains
	req.Equal(1, registry.Len())
	req.Contains(registry.Snapshot(), conn2)

	// Removing an unknown id is harmless
	registry.Remove("missing")
	req.Equal(1, registry.Len())
}
