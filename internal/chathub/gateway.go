package chathub

import (
	"encoding/json"
	"log"
	"sync"

	"villago/backend/internal/models"
	"villago/backend/internal/storage"
)

// EventHandler processes one named inbound event for a connection.
type EventHandler func(c Client, data json.RawMessage)

// Gateway owns the connection table and the dispatch table mapping inbound
// event names to handlers. It implements RoomSender for the lifecycle manager
// and broadcaster, which stay transport-free.
type Gateway struct {
	mu    sync.RWMutex
	conns map[string]Client

	Registry    *PresenceRegistry
	Lifecycle   *LifecycleService
	Broadcaster *Broadcaster

	handlers map[string]EventHandler
}

// NewGateway wires the registry, lifecycle manager and broadcaster around a
// storage collaborator and registers the inbound dispatch table.
func NewGateway(s storage.Storage) *Gateway {
	g := &Gateway{
		conns:    make(map[string]Client),
		Registry: NewPresenceRegistry(),
	}
	g.Lifecycle = NewLifecycleService(g.Registry, g, s)
	g.Broadcaster = NewBroadcaster(g.Registry, g, s)

	g.handlers = map[string]EventHandler{
		models.EventJoinRoom:    g.handleJoinRoom,
		models.EventLeaveRoom:   g.handleLeaveRoom,
		models.EventSendMessage: g.handleSendMessage,
	}
	return g
}

// SetBridge attaches the cross-instance message bridge.
func (g *Gateway) SetBridge(bridge MessageBridge) {
	g.Broadcaster.Bridge = bridge
}

// Register adds a freshly accepted connection to the table.
func (g *Gateway) Register(c Client) {
	g.mu.Lock()
	g.conns[c.GetID()] = c
	g.mu.Unlock()
	log.Printf("Connection %s registered (user %s)", c.GetID(), c.GetUserID())
}

// Unregister removes a closed connection and runs the disconnect lifecycle,
// which clears its presence in every room.
func (g *Gateway) Unregister(c Client) {
	g.mu.Lock()
	_, known := g.conns[c.GetID()]
	delete(g.conns, c.GetID())
	g.mu.Unlock()

	if !known {
		return
	}
	g.Lifecycle.OnDisconnect(c)
	c.Close()
	log.Printf("Connection %s unregistered", c.GetID())
}

// Dispatch decodes one inbound frame and routes it by event name. Malformed
// frames and unknown events answer with an error event to the sender only.
func (g *Gateway) Dispatch(c Client, raw []byte) {
	var env models.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		g.sendError(c, "malformed event")
		return
	}

	handler, ok := g.handlers[env.Event]
	if !ok {
		g.sendError(c, "unknown event: "+env.Event)
		return
	}
	handler(c, env.Data)
}

func (g *Gateway) handleJoinRoom(c Client, data json.RawMessage) {
	var p models.JoinRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		g.sendError(c, "join-room requires a roomId")
		return
	}

	userID := c.GetUserID()
	if userID == "" {
		userID = p.UserID
	}
	g.Lifecycle.OnJoin(c, p.RoomID, userID, p.Nickname)
}

func (g *Gateway) handleLeaveRoom(c Client, data json.RawMessage) {
	var p models.LeaveRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		g.sendError(c, "leave-room requires a roomId")
		return
	}
	g.Lifecycle.OnLeave(c, p.RoomID, p.Nickname)
}

func (g *Gateway) handleSendMessage(c Client, data json.RawMessage) {
	var p models.SendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		g.sendError(c, "send-message requires a roomId")
		return
	}

	// The persisted author is always the authenticated connection identity;
	// the payload's userId claim is ignored so clients cannot impersonate
	// each other. Same rule as the REST path.
	userID := c.GetUserID()
	if userID == "" {
		userID = p.UserID
	}

	if _, err := g.Broadcaster.SendMessage(p.RoomID, userID, p.Content); err != nil {
		g.sendError(c, err.Error())
	}
}

func (g *Gateway) sendError(c Client, message string) {
	c.Send(models.NewEnvelope(models.EventError, models.ErrorPayload{Message: message}))
}

// --- RoomSender ---

// ToRoom delivers to a snapshot of the room's current members. Slow clients
// drop the event rather than blocking the sender.
func (g *Gateway) ToRoom(roomID string, ev models.Envelope) {
	g.deliver(roomID, "", ev)
}

// ToRoomExcept delivers to every room member except one connection; used for
// join announcements that must not echo back to the joiner.
func (g *Gateway) ToRoomExcept(roomID, exceptConnID string, ev models.Envelope) {
	g.deliver(roomID, exceptConnID, ev)
}

// ToConn unicasts to a single connection; used for error events.
func (g *Gateway) ToConn(connID string, ev models.Envelope) {
	g.mu.RLock()
	c, ok := g.conns[connID]
	g.mu.RUnlock()
	if ok {
		c.Send(ev)
	}
}

func (g *Gateway) deliver(roomID, exceptConnID string, ev models.Envelope) {
	members := g.Registry.Members(roomID)

	g.mu.RLock()
	targets := make([]Client, 0, len(members))
	for _, connID := range members {
		if connID == exceptConnID {
			continue
		}
		if c, ok := g.conns[connID]; ok {
			targets = append(targets, c)
		}
	}
	g.mu.RUnlock()

	for _, c := range targets {
		if !c.Send(ev) {
			log.Printf("WARNING: Dropped %s event for slow connection %s", ev.Event, c.GetID())
		}
	}
}
