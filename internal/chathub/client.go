package chathub

import "villago/backend/internal/models"

// Client is the interface for one live bidirectional connection. It abstracts
// the underlying transport so the lifecycle and broadcast logic never touch
// the websocket library directly.
type Client interface {
	// GetID returns the unique connection id (not the user id; one user may
	// hold several connections).
	GetID() string
	// GetUserID returns the authenticated user behind the connection, if any.
	GetUserID() string
	// GetNickname returns the display name presented to other room members.
	GetNickname() string

	// Send queues an envelope for delivery. It never blocks; it returns false
	// when the client's outbound buffer is full and the event was dropped.
	Send(ev models.Envelope) bool

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the outbound channel; safe to call more than once.
	Close()
}

// RoomSender delivers envelopes to live connections. The session gateway
// implements it; the lifecycle manager and broadcaster depend on nothing else
// for delivery.
type RoomSender interface {
	ToRoom(roomID string, ev models.Envelope)
	ToRoomExcept(roomID, exceptConnID string, ev models.Envelope)
	ToConn(connID string, ev models.Envelope)
}
