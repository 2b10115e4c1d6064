package models

import "time"

// Roles a user account can hold. Role strings are stored lowercase and
// compared against explicit allow-lists at the routing boundary.
const (
	RoleStudent   = "student"
	RoleVolunteer = "volunteer"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// User represents a registered participant. EcoPoints is the reward ledger
// balance; it is incremented by recycling-log approvals and may only
// otherwise change through an explicit admin adjustment.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:32;not null;default:student" json:"role"`
	EcoPoints int       `gorm:"not null;default:0" json:"eco_points"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidRole reports whether role is one of the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleVolunteer, RoleOrganizer, RoleAdmin:
		return true
	default:
		return false
	}
}
