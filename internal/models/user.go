package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq" // Needed for pq.StringArray
	"gorm.io/gorm"
)

// User represents a registered (or guest) member of the marketplace.
// Chat, moderation and the back-office all hang off this record.
type User struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Nickname string `gorm:"type:text;not null;index" json:"nickname"`
	// Region is the rural area the user is relocating to (or already lives in).
	Region    string         `json:"region"`
	Interests pq.StringArray `gorm:"type:text[]" json:"-"` // farming, crafts, ...

	// Moderation state. ReputationScore starts at 100 and is decremented by
	// confirmed reports; BlockEndTime is a unix timestamp, 0 means no ban.
	ReputationScore int   `gorm:"default:100" json:"-"`
	IsBlocked       bool  `json:"-"`
	BlockEndTime    int64 `json:"-"`
	BlockLevel      int   `json:"-"`
	LastBanDate     int64 `json:"-"`
}

// BeforeCreate is a GORM hook that runs before the record is inserted.
// It generates a new UUID for the user if the ID is not already set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
