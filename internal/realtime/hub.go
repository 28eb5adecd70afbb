package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/trucogame-go/internal/api/response"
	"github.com/mcoot/trucogame-go/internal/model"
)

// outbound is either a snapshot rendered per viewer or a fixed message
type outbound struct {
	snapshot *model.Snapshot
	message  Message
}

// Hub fans events out to every client connected to one room
type Hub struct {
	roomID  model.RoomID
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound
	done       chan struct{}
}

// NewHub creates a new Hub for a room
func NewHub(roomID model.RoomID, logger *slog.Logger) *Hub {
	return &Hub{
		roomID:     roomID,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("room_id", string(roomID))),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop. It returns once ctx is done, after
// delivering anything already queued and closing every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	h.logger.Info("hub started")

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client registered",
				slog.String("player_id", string(client.playerID)),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.logger.Info("client unregistered",
					slog.String("player_id", string(client.playerID)),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case out := <-h.broadcast:
			h.deliver(out)

		case <-ctx.Done():
			h.drain()
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				client.close()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

func (h *Hub) drain() {
	for {
		select {
		case out := <-h.broadcast:
			h.deliver(out)
		default:
			return
		}
	}
}

func (h *Hub) deliver(out outbound) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for client := range h.clients {
		msg := out.message
		if out.snapshot != nil {
			data, err := json.Marshal(response.GameStateFromSnapshot(out.snapshot.ForViewer(client.playerID)))
			if err != nil {
				h.logger.Error("failed to encode game state", slog.String("error", err.Error()))
				return
			}
			msg = Message{Event: model.EventGameState, Data: data}
		}
		if !client.Deliver(msg) {
			dropped++
			h.logger.Warn("message dropped - client buffer full",
				slog.String("player_id", string(client.playerID)))
		}
	}
	if dropped > 0 {
		h.logger.Warn("broadcast partial failure",
			slog.Int("sent", len(h.clients)-dropped),
			slog.Int("dropped", dropped))
	}
}

// Register adds a client to the hub. It reports false if the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastSnapshot sends each client the snapshot as that client's seat sees it
func (h *Hub) BroadcastSnapshot(snap *model.Snapshot) {
	h.enqueue(outbound{snapshot: snap})
}

// Broadcast sends the same message to all clients
func (h *Hub) Broadcast(msg Message) {
	h.enqueue(outbound{message: msg})
}

func (h *Hub) enqueue(out outbound) {
	select {
	case h.broadcast <- out:
	default:
		h.logger.Warn("broadcast dropped - hub buffer full")
	}
}

// Done is closed once Run has returned
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
