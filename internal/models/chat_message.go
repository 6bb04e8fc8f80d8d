package models

import "gorm.io/gorm"

// ChatMessage is a saved chat message in the PostgreSQL database.
// The embedded gorm.Model provides ID, CreatedAt, UpdatedAt, and DeletedAt fields;
// ID and CreatedAt are the store-assigned identity the realtime layer re-broadcasts
// verbatim, so client-visible ordering stays keyed to persisted order.
type ChatMessage struct {
	gorm.Model

	// RoomID is the identifier of the chat room where the message was sent.
	RoomID string `gorm:"type:uuid;not null;index:idx_room_msg"`
	// UserID is the author of the message.
	UserID string `gorm:"type:text;not null;index:idx_room_msg"`
	// Content is the message body. At most 1000 characters; enforced in the
	// broadcaster, not here.
	Content string `gorm:"type:text;not null"`
	// IsSystem distinguishes automated notices from user content.
	IsSystem bool `gorm:"default:false"`

	User User `gorm:"foreignKey:UserID"`
}
