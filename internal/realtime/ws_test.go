package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/trucogame-go/internal/api/apierr"
	"github.com/mcoot/trucogame-go/internal/model"
)

type recordingHandler struct {
	mu      sync.Mutex
	actions []model.Action
	err     error
}

func (h *recordingHandler) Act(_ context.Context, _ model.RoomID, _ model.PlayerID, action model.Action) (*model.Game, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions = append(h.actions, action)
	return nil, h.err
}

func (h *recordingHandler) recorded() []model.Action {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]model.Action(nil), h.actions...)
}

func TestInboundAction_ToAction(t *testing.T) {
	tests := []struct {
		name    string
		in      InboundAction
		want    model.Action
		wantErr error
	}{
		{
			name: "ready",
			in:   InboundAction{Type: "ready"},
			want: model.Action{Type: model.ActionReady},
		},
		{
			name: "play card by symbol",
			in:   InboundAction{Type: "play_card", Card: "7♦"},
			want: model.Action{Type: model.ActionPlayCard, Card: model.Card{Rank: model.RankSeven, Suit: model.SuitOuros}},
		},
		{
			name:    "play card without card",
			in:      InboundAction{Type: "play_card"},
			wantErr: model.ErrInvalidCard,
		},
		{
			name: "respond to truco",
			in:   InboundAction{Type: "respond_bid", Bid: "truco", Accept: true},
			want: model.Action{Type: model.ActionRespondBid, Bid: model.BidTruco, Accept: true},
		},
		{
			name:    "request without bid",
			in:      InboundAction{Type: "request_bid"},
			wantErr: model.ErrUnsupportedBid,
		},
		{
			name:    "unknown type",
			in:      InboundAction{Type: "shuffle"},
			wantErr: model.ErrUnknownAction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.ToAction()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func dialRoom(t *testing.T, manager *HubManager, handler ActionHandler) (*websocket.Conn, *Hub) {
	t.Helper()
	hubs := make(chan *Hub, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := NewClient("alice")
		hub := manager.Attach("ROOM01", client)
		hubs <- hub
		ServeWS(w, r, hub, client, "ROOM01", handler, discardLogger())
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, <-hubs
}

func readFrame(t *testing.T, conn *websocket.Conn) OutboundFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame OutboundFrame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestServeWS_DispatchesActions(t *testing.T) {
	manager := NewHubManager(discardLogger())
	defer manager.Shutdown()
	handler := &recordingHandler{}
	conn, _ := dialRoom(t, manager, handler)

	require.NoError(t, conn.WriteJSON(InboundAction{Type: "play_card", Card: "1 espadas"}))

	assert.Eventually(t, func() bool { return len(handler.recorded()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, model.Card{Rank: model.RankAce, Suit: model.SuitEspadas}, handler.recorded()[0].Card)
}

func TestServeWS_ReportsRejectedActionToSender(t *testing.T) {
	manager := NewHubManager(discardLogger())
	defer manager.Shutdown()
	handler := &recordingHandler{err: model.ErrNotYourTurn}
	conn, _ := dialRoom(t, manager, handler)

	require.NoError(t, conn.WriteJSON(InboundAction{Type: "ready"}))

	frame := readFrame(t, conn)
	assert.Equal(t, model.EventActionError, frame.Type)
	var body apierr.APIError
	require.NoError(t, json.Unmarshal(frame.Data, &body))
	assert.Equal(t, apierr.CodeNotYourTurn, body.Code)
}

func TestServeWS_MalformedFrame(t *testing.T) {
	manager := NewHubManager(discardLogger())
	defer manager.Shutdown()
	handler := &recordingHandler{}
	conn, _ := dialRoom(t, manager, handler)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	frame := readFrame(t, conn)
	assert.Equal(t, model.EventActionError, frame.Type)
	assert.Contains(t, string(frame.Data), apierr.CodeInvalidRequest)
	assert.Empty(t, handler.recorded())
}

func TestServeWS_ReceivesBroadcasts(t *testing.T) {
	manager := NewHubManager(discardLogger())
	defer manager.Shutdown()
	conn, hub := dialRoom(t, manager, &recordingHandler{})

	hub.BroadcastSnapshot(model.NewSnapshot(dealtGame()))

	frame := readFrame(t, conn)
	assert.Equal(t, model.EventGameState, frame.Type)
	state := decodeState(t, Message{Event: frame.Type, Data: frame.Data})
	assert.Len(t, state.Players[0].Hand, 3)
}
