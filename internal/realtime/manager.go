package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/trucogame-go/internal/model"
)

type runningHub struct {
	hub    *Hub
	cancel context.CancelFunc
}

// HubManager manages hubs for all rooms
type HubManager struct {
	hubs   map[model.RoomID]runningHub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.RoomID]runningHub),
		logger: logger.With(slog.String("component", "realtime")),
	}
}

// GetOrCreateHub returns the hub for a room, starting one if it doesn't exist
func (m *HubManager) GetOrCreateHub(roomID model.RoomID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if running, ok := m.hubs[roomID]; ok {
		return running.hub
	}

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(roomID, m.logger)
	m.hubs[roomID] = runningHub{hub: hub, cancel: cancel}
	go hub.Run(ctx)
	return hub
}

// Attach registers client with the room's hub, starting one if needed
func (m *HubManager) Attach(roomID model.RoomID, client *Client) *Hub {
	for {
		hub := m.GetOrCreateHub(roomID)
		if hub.Register(client) {
			return hub
		}
		// stopped between lookup and register; the next lookup starts a new one
	}
}

// GetHub returns the hub for a room, or nil if it doesn't exist
func (m *HubManager) GetHub(roomID model.RoomID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[roomID].hub
}

// RemoveHub stops and forgets a room's hub
func (m *HubManager) RemoveHub(roomID model.RoomID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if running, ok := m.hubs[roomID]; ok {
		running.cancel()
		delete(m.hubs, roomID)
		m.logger.Info("hub removed", slog.String("room_id", string(roomID)))
	}
}

// CleanupEmptyHubs stops hubs with no clients
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removedCount := 0
	for roomID, running := range m.hubs {
		if running.hub.ClientCount() == 0 {
			running.cancel()
			delete(m.hubs, roomID)
			removedCount++
		}
	}
	if removedCount > 0 {
		m.logger.Info("empty hubs cleaned up", slog.Int("removed", removedCount))
	}
}

// Shutdown stops every hub
func (m *HubManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for roomID, running := range m.hubs {
		running.cancel()
		delete(m.hubs, roomID)
	}
}

// HubCount returns the number of running hubs
func (m *HubManager) HubCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hubs)
}
