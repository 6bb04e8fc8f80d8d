package models

import "gorm.io/gorm"

// Report is a user complaint about a chat message or its author.
type Report struct {
	gorm.Model

	ReporterID     string `gorm:"type:text;not null;index"`
	ReportedUserID string `gorm:"type:text;not null;index"`
	RoomID         string `gorm:"type:uuid;index"`
	// MessageID points at the offending ChatMessage, when the report is about one.
	MessageID *uint `gorm:"index"`
	// ReportType selects the penalty weight: "spam", "abuse", "scam", "other".
	ReportType string `gorm:"type:text;not null"`
	Comment    string `gorm:"type:text"`
	Status     string `gorm:"type:text;default:'new'"` // "new", "resolved", "dismissed"
}
