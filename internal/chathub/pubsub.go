package chathub

import (
	"encoding/json"
	"log"

	"villago/backend/internal/models"
	"villago/backend/internal/storage"

	"github.com/google/uuid"
)

// RedisBridge re-fans persisted messages between server instances through
// Redis Pub/Sub. Delivery across instances is best effort with no ordering
// guarantee; each instance tags its own events and skips them on receipt.
type RedisBridge struct {
	Storage storage.Storage
	Sender  RoomSender

	instanceID string
}

type bridgeEvent struct {
	Origin  string                   `json:"origin"`
	RoomID  string                   `json:"roomId"`
	Message models.NewMessagePayload `json:"message"`
}

func NewRedisBridge(s storage.Storage, sender RoomSender) *RedisBridge {
	return &RedisBridge{
		Storage:    s,
		Sender:     sender,
		instanceID: uuid.New().String(),
	}
}

// PublishMessage pushes a delivered message to the shared channel. Failures
// only cost cross-instance delivery; local recipients already have the event.
func (b *RedisBridge) PublishMessage(roomID string, msg models.NewMessagePayload) {
	payload, err := json.Marshal(bridgeEvent{
		Origin:  b.instanceID,
		RoomID:  roomID,
		Message: msg,
	})
	if err != nil {
		log.Printf("Error encoding bridge event: %v", err)
		return
	}
	if err := b.Storage.PublishEvent(payload); err != nil {
		log.Printf("WARNING: Failed to publish message %d to Redis: %v", msg.ID, err)
	}
}

// Run subscribes to the shared channel and fans remote messages into the
// local presence sets. Meant to be started as a goroutine from main.
func (b *RedisBridge) Run() {
	pubsub := b.Storage.SubscribeEvents()
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var ev bridgeEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("Error unmarshalling bridge event: %v", err)
			continue
		}
		if ev.Origin == b.instanceID {
			continue
		}
		b.Sender.ToRoom(ev.RoomID, models.NewEnvelope(models.EventNewMessage, ev.Message))
	}
}
