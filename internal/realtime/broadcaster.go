package realtime

import (
	"log/slog"

	"github.com/mcoot/trucogame-go/internal/api/apierr"
	"github.com/mcoot/trucogame-go/internal/model"
	"github.com/mcoot/trucogame-go/internal/services/session"
)

// Broadcaster publishes room changes to the room's hub
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

var _ session.Broadcaster = (*Broadcaster)(nil)

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "broadcaster")),
	}
}

// BroadcastGame sends every client the table as their seat sees it
func (b *Broadcaster) BroadcastGame(g *model.Game) {
	hub := b.hubManager.GetHub(g.RoomID)
	if hub == nil {
		return
	}
	hub.BroadcastSnapshot(model.NewSnapshot(g))
}

// BroadcastRoomClosed tells clients the room is gone and stops its hub
func (b *Broadcaster) BroadcastRoomClosed(roomID model.RoomID) {
	hub := b.hubManager.GetHub(roomID)
	if hub == nil {
		return
	}
	msg, err := NewMessage(model.EventRoomClosed, map[string]string{"room_id": string(roomID)})
	if err != nil {
		b.logger.Error("failed to encode room closed", slog.String("error", err.Error()))
	} else {
		hub.Broadcast(msg)
	}
	b.hubManager.RemoveHub(roomID)
}

// SendError reports a failed action to the one client that sent it
func SendError(client *Client, err error) {
	msg, encodeErr := NewMessage(model.EventActionError, apierr.FromError(err))
	if encodeErr != nil {
		return
	}
	client.Deliver(msg)
}
