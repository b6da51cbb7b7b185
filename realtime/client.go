package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeWS upgrades an HTTP request to a websocket and runs the
// connection until the client goes away. Trust is inherited from the
// HTTP-layer session that preceded the upgrade: identity is whatever
// the caller resolved from the cookie, no further handshake happens
// inside the realtime protocol.
//
// ServeWS blocks in the read pump, so each connection's inbound events
// are handled strictly one at a time: an event's persist -> re-fetch ->
// broadcast sequence completes before the same connection's next event
// is read. Events from different connections may interleave.
func ServeWS(hub *Hub, log *slog.Logger, w http.ResponseWriter, r *http.Request, identity string, bufferSize int) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", "error", err)
		return
	}

	conn := NewConn(identity, bufferSize, log)
	if err := hub.Connect(conn); err != nil {
		log.Error("state replay failed, closing connection", "conn_id", conn.ID, "error", err)
		_ = ws.Close()
		return
	}

	done := make(chan struct{})
	go writePump(ws, conn, log, done)
	readPump(ws, hub, conn, log)
	close(done)
}

func readPump(ws *websocket.Conn, hub *Hub, conn *Conn, log *slog.Logger) {
	defer func() {
		hub.Disconnect(conn)
		_ = ws.Close()
	}()

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("unexpected close", "conn_id", conn.ID, "error", err)
			}
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			log.Warn("malformed frame", "conn_id", conn.ID, "error", err)
			continue
		}

		switch envelope.Event {
		case EventMessageNew:
			var payload MessagePayload
			if err := json.Unmarshal(envelope.Data, &payload); err != nil {
				log.Warn("malformed message payload", "conn_id", conn.ID, "error", err)
				continue
			}
			if err := hub.HandleMessageNew(conn, payload); err != nil {
				log.Error("message event failed", "conn_id", conn.ID, "error", err)
			}
		case EventProductNew:
			var payload ProductPayload
			if err := json.Unmarshal(envelope.Data, &payload); err != nil {
				log.Warn("malformed product payload", "conn_id", conn.ID, "error", err)
				continue
			}
			if err := hub.HandleProductNew(conn, payload); err != nil {
				log.Error("product event failed", "conn_id", conn.ID, "error", err)
			}
		default:
			log.Debug("unknown event ignored", "conn_id", conn.ID, "event", envelope.Event)
		}
	}
}

func writePump(ws *websocket.Conn, conn *Conn, log *slog.Logger, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = ws.Close()
	}()

	for {
		select {
		case envelope := <-conn.Outbound():
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteJSON(envelope); err != nil {
				log.Warn("write failed", "conn_id", conn.ID, "error", err)
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
