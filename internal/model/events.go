package model

// EventType identifies a realtime event sent to room subscribers
type EventType string

const (
	EventGameState   EventType = "game-state"   // snapshot redacted for the receiver
	EventActionError EventType = "action-error" // sent only to the seat whose action failed
	EventRoomClosed  EventType = "room-closed"
	EventPlayerLeft  EventType = "player-left"
)
