package models

import "time"

// Event is an organizer-run activity users can join. Attendance feeds the
// leaderboard's events_attended count and never touches the points ledger.
type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"size:255" json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	CreatedBy   uint      `gorm:"not null;index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventParticipant links a user to an event they signed up for.
type EventParticipant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;index:idx_event_user,unique" json:"event_id"`
	UserID    uint      `gorm:"not null;index:idx_event_user,unique" json:"user_id"`
	Attended  bool      `gorm:"not null;default:false" json:"attended"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
