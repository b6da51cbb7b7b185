package realtime

import (
	"fmt"
	"log/slog"

	"plaza/domain"
	"plaza/metrics"
	"plaza/projection"
	"plaza/repositories"
)

// Hub is the broadcast core of one worker process. Every mutation goes
// persist -> re-fetch -> fan out the complete snapshot; the hub never
// diffs or patches client-side state.
type Hub struct {
	log      *slog.Logger
	registry *Registry
	messages repositories.IMessageRepository
	products repositories.IProductRepository
	metrics  *metrics.Metrics
}

func NewHub(
	log *slog.Logger,
	registry *Registry,
	messages repositories.IMessageRepository,
	products repositories.IProductRepository,
	m *metrics.Metrics,
) *Hub {
	return &Hub{log: log, registry: registry, messages: messages, products: products, metrics: m}
}

// Connect replays the full current state to the new connection, then
// admits it. Admission comes last so the two snapshot unicasts always
// precede any broadcast this connection can observe.
func (h *Hub) Connect(conn *Conn) error {
	messageState, err := h.messageSnapshot()
	if err != nil {
		return fmt.Errorf("message snapshot: %w", err)
	}
	productState, err := h.productSnapshot()
	if err != nil {
		return fmt.Errorf("product snapshot: %w", err)
	}

	conn.Send(messageState)
	conn.Send(productState)

	h.registry.Admit(conn)
	h.metrics.Connections.Inc()
	h.log.Info("connection admitted", "conn_id", conn.ID, "identity", conn.Identity)
	return nil
}

// Disconnect removes the connection. Disconnection itself triggers no
// broadcast.
func (h *Hub) Disconnect(conn *Conn) {
	h.registry.Remove(conn.ID)
	h.metrics.Connections.Dec()
	h.log.Info("connection removed", "conn_id", conn.ID)
}

// HandleMessageNew persists the message, then re-fetches and broadcasts
// the entire refreshed collection. A persistence failure aborts the
// fan-out: no partial or stale snapshot is ever sent, and the acting
// client gets a generic failure.
func (h *Hub) HandleMessageNew(conn *Conn, payload MessagePayload) error {
	author := payload.Author
	if conn.Identity != "" {
		author = conn.Identity
	}

	if _, err := h.messages.Save(domain.Message{Author: author, Content: payload.Text}); err != nil {
		h.sendError(conn)
		return fmt.Errorf("persist message: %w", err)
	}
	h.metrics.MessagesStored.Inc()

	state, err := h.messageSnapshot()
	if err != nil {
		h.sendError(conn)
		return fmt.Errorf("refresh message snapshot: %w", err)
	}
	h.broadcast(state)
	return nil
}

// HandleProductNew is symmetric to HandleMessageNew, without the
// normalization step: the fetched collection is passed through as-is.
func (h *Hub) HandleProductNew(conn *Conn, payload ProductPayload) error {
	if _, err := h.products.Save(domain.Product{
		Name:  payload.Name,
		Price: payload.Price,
		Stock: payload.Stock,
	}); err != nil {
		h.sendError(conn)
		return fmt.Errorf("persist product: %w", err)
	}
	h.metrics.ProductsStored.Inc()

	state, err := h.productSnapshot()
	if err != nil {
		h.sendError(conn)
		return fmt.Errorf("refresh product snapshot: %w", err)
	}
	h.broadcast(state)
	return nil
}

func (h *Hub) messageSnapshot() (Envelope, error) {
	messages, err := h.messages.GetAll()
	if err != nil {
		return Envelope{}, err
	}
	return NewEnvelope(EventStateMessages, projection.NormalizeMessages(messages))
}

func (h *Hub) productSnapshot() (Envelope, error) {
	products, err := h.products.GetAll()
	if err != nil {
		return Envelope{}, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return NewEnvelope(EventStateProducts, products)
}

// broadcast multicasts an envelope to every connection currently known
// to this worker's registry.
func (h *Hub) broadcast(e Envelope) {
	for _, conn := range h.registry.Snapshot() {
		conn.Send(e)
	}
	h.metrics.Broadcasts.Inc()
}

func (h *Hub) sendError(conn *Conn) {
	e, err := NewEnvelope(EventError, errorPayload{Message: "could not process event"})
	if err != nil {
		return
	}
	conn.Send(e)
}
