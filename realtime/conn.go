package realtime

import (
	"log/slog"

	"github.com/google/uuid"
)

// Conn is one live realtime channel as the broadcast layer sees it.
// Identity is a plain copied value captured from the session at connect
// time and never re-validated afterwards; an empty string means the
// connection is anonymous.
type Conn struct {
	ID       string
	Identity string
	outbound chan Envelope
	log      *slog.Logger
}

func NewConn(identity string, bufferSize int, log *slog.Logger) *Conn {
	return &Conn{
		ID:       uuid.NewString(),
		Identity: identity,
		outbound: make(chan Envelope, bufferSize),
		log:      log,
	}
}

// Send redirects an envelope through the connection's channel; the
// transport write pump takes it from there. A full channel means the
// client cannot keep up: the envelope is dropped and logged rather than
// blocking the broadcaster.
func (c *Conn) Send(e Envelope) {
	select {
	case c.outbound <- e:
	default:
		c.log.Warn("connection backpressure, dropping event", "conn_id", c.ID, "event", e.Event)
	}
}

// Outbound is consumed by the transport write pump.
func (c *Conn) Outbound() <-chan Envelope {
	return c.outbound
}
