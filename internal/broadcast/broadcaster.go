// Package broadcast streams detected opportunities to websocket clients.
package broadcast

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/britej3/Furocombo-V2/internal/scanner"
	"github.com/gorilla/websocket"
)

// Broadcaster fans detected opportunities out to connected websocket clients.
type Broadcaster struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
}

// NewBroadcaster creates a Broadcaster with no clients.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients:  make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Publish sends one opportunity to every connected client. Clients that
// fail to write are dropped.
func (b *Broadcaster) Publish(op scanner.Opportunity) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.clients) == 0 {
		return
	}

	msg, err := json.Marshal(op)
	if err != nil {
		slog.Error("opportunity_marshal_failed", "error", err)
		return
	}

	for conn := range b.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			slog.Debug("websocket_write_failed", "error", err)
			conn.Close()
			delete(b.clients, conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Handler returns an http.HandlerFunc that upgrades connections and
// registers them for broadcasts.
func (b *Broadcaster) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("websocket_upgrade_failed", "error", err)
			return
		}

		b.mu.Lock()
		b.clients[conn] = struct{}{}
		count := len(b.clients)
		b.mu.Unlock()

		slog.Info("websocket_client_connected", "clients", count)

		// Read loop keeps the connection alive and detects disconnects
		go func() {
			defer func() {
				b.mu.Lock()
				delete(b.clients, conn)
				b.mu.Unlock()
				conn.Close()
				slog.Info("websocket_client_disconnected")
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}

// ListenAndServe runs an HTTP server exposing the broadcast endpoint at /ws.
// It blocks until the server stops.
func (b *Broadcaster) ListenAndServe(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", b.Handler())

	addr := fmt.Sprintf(":%d", port)
	slog.Info("broadcast_server_listening", "addr", addr)
	return http.ListenAndServe(addr, mux)
}
