package chathub_test

import (
	"encoding/json"
	"testing"

	"villago/backend/internal/chathub"
	"villago/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T) (*chathub.Gateway, *MockStorage) {
	t.Helper()
	storageMock := new(MockStorage)
	storageMock.On("SetOnlineCount", mock.Anything, mock.Anything).Return(nil)
	return chathub.NewGateway(storageMock), storageMock
}

func decodePayload[T any](t *testing.T, ev models.Envelope) T {
	t.Helper()
	var p T
	require.NoError(t, json.Unmarshal(ev.Data, &p))
	return p
}

func eventsByName(events []models.Envelope) map[string][]models.Envelope {
	out := make(map[string][]models.Envelope)
	for _, ev := range events {
		out[ev.Event] = append(out[ev.Event], ev)
	}
	return out
}

// TestLifecycle_JoinAnnouncesToOthersOnly covers the join scenario: B's join
// sends online-count 2 to both members but the user-joined announcement only
// to A, never back to B.
func TestLifecycle_JoinAnnouncesToOthersOnly(t *testing.T) {
	g, _ := newTestGateway(t)
	clientA := newMockClient("conn-a", "Ann")
	clientB := newMockClient("conn-b", "Bob")
	g.Register(clientA)
	g.Register(clientB)

	g.Lifecycle.OnJoin(clientA, "general", clientA.GetUserID(), "Ann")
	countA := decodePayload[models.OnlineCountPayload](t, clientA.DrainEvents()[0])
	assert.Equal(t, 1, countA.Count)

	g.Lifecycle.OnJoin(clientB, "general", clientB.GetUserID(), "Bob")

	aEvents := eventsByName(clientA.DrainEvents())
	require.Len(t, aEvents[models.EventOnlineCount], 1)
	assert.Equal(t, 2, decodePayload[models.OnlineCountPayload](t, aEvents[models.EventOnlineCount][0]).Count)
	require.Len(t, aEvents[models.EventUserJoined], 1)
	joined := decodePayload[models.UserJoinedPayload](t, aEvents[models.EventUserJoined][0])
	assert.Equal(t, "Bob", joined.Nickname)
	assert.False(t, joined.Timestamp.IsZero())

	bEvents := eventsByName(clientB.DrainEvents())
	require.Len(t, bEvents[models.EventOnlineCount], 1)
	assert.Equal(t, 2, decodePayload[models.OnlineCountPayload](t, bEvents[models.EventOnlineCount][0]).Count)
	assert.Empty(t, bEvents[models.EventUserJoined], "joiner must not receive their own announcement")
}

// TestLifecycle_DisconnectWithoutLeave covers the second half of the scenario:
// B disconnects without an explicit leave-room and A still sees the count drop.
func TestLifecycle_DisconnectWithoutLeave(t *testing.T) {
	g, _ := newTestGateway(t)
	clientA := newMockClient("conn-a", "Ann")
	clientB := newMockClient("conn-b", "Bob")
	g.Register(clientA)
	g.Register(clientB)
	g.Lifecycle.OnJoin(clientA, "general", clientA.GetUserID(), "Ann")
	g.Lifecycle.OnJoin(clientB, "general", clientB.GetUserID(), "Bob")
	clientA.DrainEvents()
	clientB.DrainEvents()

	g.Unregister(clientB)

	aEvents := eventsByName(clientA.DrainEvents())
	require.Len(t, aEvents[models.EventOnlineCount], 1)
	assert.Equal(t, 1, decodePayload[models.OnlineCountPayload](t, aEvents[models.EventOnlineCount][0]).Count)
	assert.Empty(t, aEvents[models.EventUserLeft], "disconnect sends no leave announcement")
	assert.Equal(t, 1, g.Registry.MemberCount("general"))
}

// TestLifecycle_LeaveAnnouncement verifies an explicit leave emits both the
// updated count and a user-left notice to the remaining members.
func TestLifecycle_LeaveAnnouncement(t *testing.T) {
	g, _ := newTestGateway(t)
	clientA := newMockClient("conn-a", "Ann")
	clientB := newMockClient("conn-b", "Bob")
	g.Register(clientA)
	g.Register(clientB)
	g.Lifecycle.OnJoin(clientA, "general", clientA.GetUserID(), "Ann")
	g.Lifecycle.OnJoin(clientB, "general", clientB.GetUserID(), "Bob")
	clientA.DrainEvents()
	clientB.DrainEvents()

	g.Lifecycle.OnLeave(clientB, "general", "Bob")

	aEvents := eventsByName(clientA.DrainEvents())
	require.Len(t, aEvents[models.EventOnlineCount], 1)
	assert.Equal(t, 1, decodePayload[models.OnlineCountPayload](t, aEvents[models.EventOnlineCount][0]).Count)
	require.Len(t, aEvents[models.EventUserLeft], 1)
	assert.Equal(t, "Bob", decodePayload[models.UserLeftPayload](t, aEvents[models.EventUserLeft][0]).Nickname)

	// B already left the room, so it receives nothing.
	assert.Empty(t, clientB.DrainEvents())
}

// TestLifecycle_DisconnectClearsEveryRoom verifies multi-room membership is
// fully cleaned up on disconnect.
func TestLifecycle_DisconnectClearsEveryRoom(t *testing.T) {
	g, _ := newTestGateway(t)
	clientA := newMockClient("conn-a", "Ann")
	watcher := newMockClient("conn-w", "Watcher")
	g.Register(clientA)
	g.Register(watcher)

	g.Lifecycle.OnJoin(clientA, "general", clientA.GetUserID(), "Ann")
	g.Lifecycle.OnJoin(clientA, "jeolla", clientA.GetUserID(), "Ann")
	g.Lifecycle.OnJoin(watcher, "jeolla", watcher.GetUserID(), "Watcher")
	watcher.DrainEvents()

	g.Unregister(clientA)

	assert.Equal(t, 0, g.Registry.MemberCount("general"))
	assert.Equal(t, 1, g.Registry.MemberCount("jeolla"))

	wEvents := eventsByName(watcher.DrainEvents())
	require.Len(t, wEvents[models.EventOnlineCount], 1)
	assert.Equal(t, 1, decodePayload[models.OnlineCountPayload](t, wEvents[models.EventOnlineCount][0]).Count)
}

// TestLifecycle_OperationsNeverFail checks that unknown rooms and connections
// are silent no-ops.
func TestLifecycle_OperationsNeverFail(t *testing.T) {
	g, _ := newTestGateway(t)
	stranger := newMockClient("conn-x", "X")

	assert.NotPanics(t, func() {
		g.Lifecycle.OnLeave(stranger, "no-such-room", "X")
		g.Lifecycle.OnDisconnect(stranger)
	})
}
