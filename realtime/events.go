// Package realtime implements the per-worker broadcast layer: a
// registry of live connections and the event protocol that keeps every
// client's view of the shared collections in sync with storage.
package realtime

import (
	"encoding/json"
)

// Wire event names, both directions.
const (
	EventStateMessages = "state:messages" // server -> client, full normalized snapshot
	EventStateProducts = "state:products" // server -> client, full snapshot
	EventMessageNew    = "message:new"    // client -> server, single message
	EventProductNew    = "product:new"    // client -> server, single product
	EventError         = "error"          // server -> client, generic failure
)

// Envelope is the framing for every event on the realtime channel.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// NewEnvelope wraps a payload for sending.
func NewEnvelope(event string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: event, Data: data}, nil
}

// MessagePayload is the body of a message:new event. The author field
// is only honored for anonymous connections; an authenticated
// connection always writes under its own identity.
type MessagePayload struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// ProductPayload is the body of a product:new event.
type ProductPayload struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type errorPayload struct {
	Message string `json:"message"`
}
