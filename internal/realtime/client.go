package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/mcoot/trucogame-go/internal/model"
)

const (
	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Message is one event queued for a client. Data is JSON.
type Message struct {
	Event model.EventType
	Data  json.RawMessage
}

// NewMessage marshals data into a Message
func NewMessage(event model.EventType, data any) (Message, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return Message{}, err
	}
	return Message{Event: event, Data: b}, nil
}

// Client is one realtime connection of a seated player
type Client struct {
	playerID    model.PlayerID
	connectedAt time.Time

	mu     sync.Mutex
	send   chan Message
	closed bool
}

// NewClient creates a new client for playerID
func NewClient(playerID model.PlayerID) *Client {
	return &Client{
		playerID:    playerID,
		connectedAt: time.Now(),
		send:        make(chan Message, sendBufferSize),
	}
}

// PlayerID returns the player the connection belongs to
func (c *Client) PlayerID() model.PlayerID {
	return c.playerID
}

// Messages returns the outgoing queue. It is closed when the hub drops the
// client.
func (c *Client) Messages() <-chan Message {
	return c.send
}

// Deliver queues msg without blocking, reporting false if the buffer is full
// or the client is closed
func (c *Client) Deliver(msg Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
