package models

import (
	"encoding/json"
	"time"
)

// Wire event names. Inbound names are dispatched by the session gateway;
// outbound names are what clients switch on.
const (
	EventJoinRoom    = "join-room"
	EventLeaveRoom   = "leave-room"
	EventSendMessage = "send-message"

	EventOnlineCount = "online-count"
	EventUserJoined  = "user-joined"
	EventUserLeft    = "user-left"
	EventNewMessage  = "new-message"
	EventError       = "error"
)

// Envelope is the framing for every websocket message in either direction.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope marshals payload into an Envelope. Marshal failures are a
// programming error on our own payload types, so they surface as an empty Data.
func NewEnvelope(event string, payload any) Envelope {
	data, _ := json.Marshal(payload)
	return Envelope{Event: event, Data: data}
}

// Inbound payloads (client -> server).

type JoinRoomPayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
}

type LeaveRoomPayload struct {
	RoomID   string `json:"roomId"`
	Nickname string `json:"nickname"`
}

type SendMessagePayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
	Content  string `json:"content"`
}

// Outbound payloads (server -> client).

type OnlineCountPayload struct {
	RoomID string `json:"roomId"`
	Count  int    `json:"count"`
}

type UserJoinedPayload struct {
	Nickname  string    `json:"nickname"`
	Timestamp time.Time `json:"timestamp"`
}

type UserLeftPayload struct {
	Nickname  string    `json:"nickname"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessagePayload mirrors the persisted record: id and createdAt are the
// store-assigned values, never invented by the realtime layer.
type NewMessagePayload struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	UserID    string    `json:"userId"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"createdAt"`
	IsSystem  bool      `json:"isSystem"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
