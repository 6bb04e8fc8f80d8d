package chathub_test

import (
	"testing"

	"villago/backend/internal/chathub"

	"github.com/stretchr/testify/assert"
)

// TestPresence_JoinLeaveNetZero verifies that a join followed by a leave
// restores the count the room had before either call.
func TestPresence_JoinLeaveNetZero(t *testing.T) {
	r := chathub.NewPresenceRegistry()
	r.Join("general", "conn-a")
	before := r.MemberCount("general")

	r.Join("general", "conn-b")
	r.Leave("general", "conn-b")

	assert.Equal(t, before, r.MemberCount("general"))
}

// TestPresence_JoinIdempotent verifies that joining twice does not inflate
// the member count.
func TestPresence_JoinIdempotent(t *testing.T) {
	r := chathub.NewPresenceRegistry()

	first := r.Join("general", "conn-a")
	second := r.Join("general", "conn-a")

	assert.Equal(t, 1, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, r.MemberCount("general"))
}

func TestPresence_LeaveUnknownIsNoOp(t *testing.T) {
	r := chathub.NewPresenceRegistry()

	assert.Equal(t, 0, r.Leave("ghost-room", "conn-a"))

	r.Join("general", "conn-a")
	assert.Equal(t, 1, r.Leave("general", "never-joined"))
	assert.Equal(t, 1, r.MemberCount("general"))
}

// TestPresence_LeaveAll verifies the connection is removed from every room it
// joined and from no room it did not.
func TestPresence_LeaveAll(t *testing.T) {
	r := chathub.NewPresenceRegistry()
	r.Join("general", "conn-a")
	r.Join("jeolla", "conn-a")
	r.Join("classes", "conn-b")

	affected := r.LeaveAll("conn-a")

	assert.Len(t, affected, 2)
	counts := map[string]int{}
	for _, rc := range affected {
		counts[rc.RoomID] = rc.Count
	}
	assert.Equal(t, 0, counts["general"])
	assert.Equal(t, 0, counts["jeolla"])
	assert.NotContains(t, counts, "classes")

	assert.Equal(t, 0, r.MemberCount("general"))
	assert.Equal(t, 0, r.MemberCount("jeolla"))
	assert.Equal(t, 1, r.MemberCount("classes"))
}

func TestPresence_LeaveAllUnknownConnection(t *testing.T) {
	r := chathub.NewPresenceRegistry()
	r.Join("general", "conn-a")

	assert.Empty(t, r.LeaveAll("stranger"))
	assert.Equal(t, 1, r.MemberCount("general"))
}

// TestPresence_MembersSnapshot verifies Members returns a copy that later
// mutations do not affect.
func TestPresence_MembersSnapshot(t *testing.T) {
	r := chathub.NewPresenceRegistry()
	r.Join("general", "conn-a")
	r.Join("general", "conn-b")

	snapshot := r.Members("general")
	r.Leave("general", "conn-b")

	assert.Len(t, snapshot, 2)
	assert.Len(t, r.Members("general"), 1)
}

func TestPresence_EmptyRoomPruned(t *testing.T) {
	r := chathub.NewPresenceRegistry()
	r.Join("general", "conn-a")

	assert.Equal(t, 0, r.Leave("general", "conn-a"))
	assert.Equal(t, 0, r.MemberCount("general"))
	assert.Empty(t, r.Members("general"))
}
