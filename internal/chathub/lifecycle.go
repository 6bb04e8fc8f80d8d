package chathub

import (
	"log"
	"time"

	"villago/backend/internal/models"
	"villago/backend/internal/storage"
)

// LifecycleService handles join/leave/disconnect for connections. Its
// operations work on in-memory state and never fail from the caller's point
// of view; unknown rooms and connections are silent no-ops.
type LifecycleService struct {
	Registry *PresenceRegistry
	Sender   RoomSender
	Storage  storage.Storage
}

func NewLifecycleService(registry *PresenceRegistry, sender RoomSender, s storage.Storage) *LifecycleService {
	return &LifecycleService{Registry: registry, Sender: sender, Storage: s}
}

// OnJoin adds the connection to the room, broadcasts the new online count to
// the whole room and announces the join to everyone except the joiner. The
// announcement is transient and never persisted.
func (l *LifecycleService) OnJoin(c Client, roomID, userID, nickname string) {
	count := l.Registry.Join(roomID, c.GetID())
	log.Printf("User %s (%s) joined room %s, %d online", userID, nickname, roomID, count)

	l.Sender.ToRoom(roomID, models.NewEnvelope(models.EventOnlineCount, models.OnlineCountPayload{
		RoomID: roomID,
		Count:  count,
	}))
	l.Sender.ToRoomExcept(roomID, c.GetID(), models.NewEnvelope(models.EventUserJoined, models.UserJoinedPayload{
		Nickname:  nickname,
		Timestamp: time.Now(),
	}))

	l.cacheOnlineCount(roomID, count)
}

// OnLeave removes the connection from the room and notifies the remaining
// members with the updated count and a leave announcement.
func (l *LifecycleService) OnLeave(c Client, roomID, nickname string) {
	count := l.Registry.Leave(roomID, c.GetID())

	l.Sender.ToRoom(roomID, models.NewEnvelope(models.EventOnlineCount, models.OnlineCountPayload{
		RoomID: roomID,
		Count:  count,
	}))
	l.Sender.ToRoom(roomID, models.NewEnvelope(models.EventUserLeft, models.UserLeftPayload{
		Nickname:  nickname,
		Timestamp: time.Now(),
	}))

	l.cacheOnlineCount(roomID, count)
}

// OnDisconnect removes the connection from every room it had joined and
// broadcasts updated counts. No leave announcement is sent on disconnect.
func (l *LifecycleService) OnDisconnect(c Client) {
	for _, rc := range l.Registry.LeaveAll(c.GetID()) {
		l.Sender.ToRoom(rc.RoomID, models.NewEnvelope(models.EventOnlineCount, models.OnlineCountPayload{
			RoomID: rc.RoomID,
			Count:  rc.Count,
		}))
		l.cacheOnlineCount(rc.RoomID, rc.Count)
	}
}

// cacheOnlineCount mirrors the live count into Redis for the REST room
// listing. Best effort; presence stays correct without it.
func (l *LifecycleService) cacheOnlineCount(roomID string, count int) {
	if err := l.Storage.SetOnlineCount(roomID, count); err != nil {
		log.Printf("WARNING: Failed to cache online count for room %s: %v", roomID, err)
	}
}
