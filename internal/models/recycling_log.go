package models

import "time"

const (
	// LogStatusPending indicates the log awaits admin verification.
	LogStatusPending = "pending"
	// LogStatusApproved indicates the log was verified and points were awarded.
	LogStatusApproved = "approved"
)

// Recycling categories accepted on submission. Rejection removes the row
// entirely, so pending and approved are the only durable states.
const (
	CategoryPlastic     = "plastic"
	CategoryPaper       = "paper"
	CategoryMetal       = "metal"
	CategoryGlass       = "glass"
	CategoryElectronics = "electronics"
	CategoryOrganic     = "organic"
	CategoryOther       = "other"
)

// RecyclingLog is a submitted recycling activity record. EcoPointsEarned
// stays zero until an admin approves the log and fixes the award.
type RecyclingLog struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	Category        string     `gorm:"size:32;not null" json:"category"`
	Weight          float64    `gorm:"not null" json:"weight"`
	Description     string     `gorm:"type:text" json:"description"`
	ImageURL        string     `gorm:"size:512" json:"image_url"`
	Status          string     `gorm:"size:32;not null;default:pending;index" json:"status"`
	EcoPointsEarned int        `gorm:"not null;default:0" json:"eco_points_earned"`
	VerifiedBy      *uint      `json:"verified_by"`
	VerifiedAt      *time.Time `json:"verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	User            User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
	Verifier        *User      `gorm:"foreignKey:VerifiedBy" json:"verifier,omitempty"`
}

// IsVerified reports whether the log has left the pending state.
func (l RecyclingLog) IsVerified() bool {
	return l.Status != LogStatusPending
}

// ValidCategory reports whether category belongs to the fixed enumeration.
func ValidCategory(category string) bool {
	switch category {
	case CategoryPlastic, CategoryPaper, CategoryMetal, CategoryGlass,
		CategoryElectronics, CategoryOrganic, CategoryOther:
		return true
	default:
		return false
	}
}
