package dto

// ProfileUpdateRequest updates the caller's own profile.
type ProfileUpdateRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=255"`
	Email string `json:"email" validate:"required,email"`
}

// AdminUserUpdateRequest lets an admin adjust an account, including the
// explicit eco_points adjustment path.
type AdminUserUpdateRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=255"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Role      *string `json:"role" validate:"omitempty,oneof=student volunteer organizer admin"`
	EcoPoints *int    `json:"eco_points" validate:"omitempty,gte=0"`
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	EcoPoints      int    `json:"eco_points"`
	EventsAttended int64  `json:"events_attended"`
	RecyclingLogs  int64  `json:"recycling_logs"`
}
