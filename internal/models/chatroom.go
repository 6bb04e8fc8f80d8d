package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ChatRoom is a persisted, operator-curated chat channel. The realtime core
// only references rooms by RoomID; metadata lives here and is served over REST.
type ChatRoom struct {
	// RoomID is the unique identifier for the chat room (UUID).
	RoomID string `gorm:"primaryKey" json:"roomId"`
	// Name is the display title, e.g. "Jeolla farmhouse hunters".
	Name string `gorm:"type:text;not null" json:"name"`
	// Category groups rooms in the UI: "region", "classes", "general", ...
	Category    string         `gorm:"index" json:"category"`
	Description string         `gorm:"type:text" json:"description"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"-"`
	// IsActive indicates whether the room accepts new messages.
	IsActive  bool      `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate generates the room UUID when one is not supplied.
func (r *ChatRoom) BeforeCreate(tx *gorm.DB) (err error) {
	if r.RoomID == "" {
		r.RoomID = uuid.New().String()
	}
	return
}
