// Package domain contains core concepts of the marketplace chat system.
// This file defines Message records and related rules.
// Messages are immutable, append-only chat events.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event.
// The timestamp is assigned server side when the message is accepted.
type Message struct {
	ID      uuid.UUID `json:"id"`
	Author  string    `json:"author"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}
