package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/trucogame-go/internal/api/apierr"
	"github.com/mcoot/trucogame-go/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ActionHandler runs a player's action against a room
type ActionHandler interface {
	Act(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, action model.Action) (*model.Game, error)
}

// InboundAction is a client frame: {type, card, bid, accept}
type InboundAction struct {
	Type   string `json:"type"`
	Card   string `json:"card,omitempty"`
	Bid    string `json:"bid,omitempty"`
	Accept bool   `json:"accept,omitempty"`
}

// ToAction validates the frame and converts it to an engine action
func (in InboundAction) ToAction() (model.Action, error) {
	action := model.Action{
		Type:   model.ActionType(in.Type),
		Bid:    model.BidKind(in.Bid),
		Accept: in.Accept,
	}
	switch action.Type {
	case model.ActionPlayCard:
		card, err := model.ParseCard(in.Card)
		if err != nil {
			return model.Action{}, err
		}
		action.Card = card
	case model.ActionRequestBid, model.ActionRespondBid:
		if in.Bid == "" {
			return model.Action{}, fmt.Errorf("%w: bid is required", model.ErrUnsupportedBid)
		}
	case model.ActionReady, model.ActionDeclareFlor:
	default:
		return model.Action{}, fmt.Errorf("%w: %q", model.ErrUnknownAction, in.Type)
	}
	return action, nil
}

// OutboundFrame is a server frame: {type, data}
type OutboundFrame struct {
	Type model.EventType `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServeWS upgrades the request and pumps the client until either side
// closes. Inbound actions run through handler; a failed action is reported
// to this connection only.
func ServeWS(
	w http.ResponseWriter,
	r *http.Request,
	hub *Hub,
	client *Client,
	roomID model.RoomID,
	handler ActionHandler,
	logger *slog.Logger,
	initial ...Message,
) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.Unregister(client)
		logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	for _, msg := range initial {
		client.Deliver(msg)
	}

	go writePump(conn, client)
	readPump(r.Context(), conn, hub, client, roomID, handler, logger)
}

func readPump(
	ctx context.Context,
	conn *websocket.Conn,
	hub *Hub,
	client *Client,
	roomID model.RoomID,
	handler ActionHandler,
	logger *slog.Logger,
) {
	defer func() {
		hub.Unregister(client)
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read error",
					slog.String("player_id", string(client.playerID)),
					slog.String("error", err.Error()))
			}
			return
		}

		var in InboundAction
		if err := json.Unmarshal(data, &in); err != nil {
			SendError(client, apierr.NewInvalidRequestError("Invalid message format"))
			continue
		}
		action, err := in.ToAction()
		if err != nil {
			SendError(client, err)
			continue
		}
		if _, err := handler.Act(ctx, roomID, client.playerID, action); err != nil {
			SendError(client, err)
		}
	}
}

func writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Messages():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(OutboundFrame{Type: msg.Event, Data: msg.Data}); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
