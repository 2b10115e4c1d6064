package models

import "time"

// NotificationTypeSystem marks notifications emitted by the verification workflow.
const NotificationTypeSystem = "system"

// Notification is an append-only message targeted at a single user.
// The verification workflow is the only producer in this service.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Type      string    `gorm:"size:64;default:system" json:"type"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
