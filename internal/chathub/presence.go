package chathub

import "sync"

// RoomCount pairs a room with its member count after a mutation. LeaveAll
// returns one per affected room so the caller can broadcast updated counts.
type RoomCount struct {
	RoomID string
	Count  int
}

// PresenceRegistry tracks which connections are currently joined to which
// rooms. State is process-local and ephemeral; it is rebuilt from nothing on
// restart. All operations are idempotent and safe for concurrent use, and no
// lock is ever held across I/O.
type PresenceRegistry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]struct{}
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		rooms: make(map[string]map[string]struct{}),
	}
}

// Join adds the connection to the room's member set and returns the new count.
// Joining a room you are already in is a no-op on the count.
func (r *PresenceRegistry) Join(roomID, connID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[roomID] == nil {
		r.rooms[roomID] = make(map[string]struct{})
	}
	r.rooms[roomID][connID] = struct{}{}
	return len(r.rooms[roomID])
}

// Leave removes the connection from the room and returns the remaining count.
// Unknown rooms or non-members are no-ops. Empty sets are pruned.
func (r *PresenceRegistry) Leave(roomID, connID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomID]
	if !ok {
		return 0
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(r.rooms, roomID)
		return 0
	}
	return len(members)
}

// LeaveAll removes the connection from every room it belongs to and returns
// the affected rooms with their new counts.
func (r *PresenceRegistry) LeaveAll(connID string) []RoomCount {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected []RoomCount
	for roomID, members := range r.rooms {
		if _, ok := members[connID]; !ok {
			continue
		}
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, roomID)
		}
		affected = append(affected, RoomCount{RoomID: roomID, Count: len(members)})
	}
	return affected
}

// MemberCount reports how many connections are currently in the room.
func (r *PresenceRegistry) MemberCount(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}

// Members returns a snapshot of the room's connection ids. Broadcasts iterate
// the snapshot, so a concurrent leave yields either the pre- or post-leave
// membership, never a torn one.
func (r *PresenceRegistry) Members(roomID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[roomID]
	out := make([]string, 0, len(members))
	for connID := range members {
		out = append(out, connID)
	}
	return out
}
