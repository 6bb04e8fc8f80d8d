package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"villago/backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUserBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	user := &models.User{
		Nickname:  "haneul",
		Region:    "jeolla",
		Interests: pq.StringArray{"farming", "pottery"},
	}
	assert.Empty(t, user.ID, "User ID should be empty before BeforeCreate")

	err := user.BeforeCreate(nil) // nil *gorm.DB is acceptable for this hook

	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	parsed, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "User ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsed)
}

// TestUserBeforeCreate_PreservesExistingID verifies that the hook doesn't overwrite an existing ID.
func TestUserBeforeCreate_PreservesExistingID(t *testing.T) {
	existingID := uuid.New().String()
	user := &models.User{ID: existingID, Nickname: "haneul"}

	err := user.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, existingID, user.ID)
}

func TestChatRoomBeforeCreate_GeneratesUUID(t *testing.T) {
	room := &models.ChatRoom{Name: "Jeolla farmhouse hunters", Category: "region"}

	err := room.BeforeCreate(nil)

	assert.NoError(t, err)
	_, parseErr := uuid.Parse(room.RoomID)
	assert.NoError(t, parseErr)
}

// TestEnvelope_RoundTrip checks the wire framing both ways.
func TestEnvelope_RoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	env := models.NewEnvelope(models.EventNewMessage, models.NewMessagePayload{
		ID:        42,
		Content:   "hello",
		UserID:    "u1",
		Nickname:  "haneul",
		CreatedAt: now,
	})

	raw, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded models.Envelope
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, models.EventNewMessage, decoded.Event)

	var payload models.NewMessagePayload
	require.NoError(t, json.Unmarshal(decoded.Data, &payload))
	assert.Equal(t, uint(42), payload.ID)
	assert.Equal(t, now, payload.CreatedAt)
	assert.False(t, payload.IsSystem)
}

// TestEnvelope_FieldNames pins the wire field names clients depend on.
func TestEnvelope_FieldNames(t *testing.T) {
	env := models.NewEnvelope(models.EventOnlineCount, models.OnlineCountPayload{RoomID: "general", Count: 3})
	raw, err := json.Marshal(env)
	require.NoError(t, err)

	assert.JSONEq(t, `{"event":"online-count","data":{"roomId":"general","count":3}}`, string(raw))
}
