package chathub

import (
	"errors"
	"fmt"
	"log"
	"unicode/utf8"

	"villago/backend/internal/models"
	"villago/backend/internal/storage"
)

// MaxContentLength is the message body limit in characters (runes). The REST
// message endpoint enforces the same limit through ValidateContent, so socket
// and batch submissions obey one rule.
const MaxContentLength = 1000

var (
	// ErrValidation rejects a message before any external call is made.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence means the store rejected the write; nothing was broadcast.
	ErrPersistence = errors.New("persistence failed")
	// ErrBanned rejects sends from users with an active moderation ban.
	ErrBanned = errors.New("user is banned from chat")
)

// ValidateContent checks the message body against the shared length policy.
func ValidateContent(content string) error {
	if content == "" {
		return fmt.Errorf("%w: content must not be empty", ErrValidation)
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return fmt.Errorf("%w: content exceeds %d characters", ErrValidation, MaxContentLength)
	}
	return nil
}

// MessageBridge forwards a delivered message to other server instances.
// Optional; a nil bridge keeps delivery local to this process.
type MessageBridge interface {
	PublishMessage(roomID string, msg models.NewMessagePayload)
}

// Broadcaster persists user messages and fans them out to the room's current
// membership. Persistence is the only blocking step and runs without any
// registry lock held, so one room's slow write never stalls another room.
type Broadcaster struct {
	Registry *PresenceRegistry
	Sender   RoomSender
	Storage  storage.Storage
	Bridge   MessageBridge
}

func NewBroadcaster(registry *PresenceRegistry, sender RoomSender, s storage.Storage) *Broadcaster {
	return &Broadcaster{Registry: registry, Sender: sender, Storage: s}
}

// SendMessage validates, persists, then broadcasts. On a persistence failure
// nothing is broadcast; the payload returned on success carries the
// store-assigned id and timestamp verbatim.
func (b *Broadcaster) SendMessage(roomID, userID, content string) (*models.NewMessagePayload, error) {
	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	banned, err := b.Storage.IsUserBanned(userID)
	if err != nil {
		// Redis being down must not take chat with it; fail open.
		log.Printf("WARNING: Ban check failed for user %s: %v", userID, err)
	}
	if banned {
		return nil, ErrBanned
	}

	msg, err := b.Storage.CreateMessage(roomID, userID, content, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	payload := models.NewMessagePayload{
		ID:        msg.ID,
		Content:   msg.Content,
		UserID:    msg.UserID,
		Nickname:  msg.User.Nickname,
		CreatedAt: msg.CreatedAt,
		IsSystem:  msg.IsSystem,
	}

	b.Sender.ToRoom(roomID, models.NewEnvelope(models.EventNewMessage, payload))
	if b.Bridge != nil {
		b.Bridge.PublishMessage(roomID, payload)
	}
	return &payload, nil
}
