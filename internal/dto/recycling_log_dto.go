package dto

import (
	"time"

	"github.com/eco-campus/ecotrack-api/internal/models"
)

// LogCreateRequest is the payload for submitting a recycling log.
type LogCreateRequest struct {
	Category    string  `json:"category" validate:"required,oneof=plastic paper metal glass electronics organic other"`
	Weight      float64 `json:"weight" validate:"required,gt=0"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url,max=512"`
}

// LogApproveRequest carries the admin-entered award amount. The amount is a
// manual policy decision, never derived from weight or category.
type LogApproveRequest struct {
	EcoPoints int `json:"eco_points" validate:"required,gt=0"`
}

// LogRejectRequest carries an optional free-text rejection reason.
type LogRejectRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=2000"`
}

// LogFilter describes query string filters for admin listings.
type LogFilter struct {
	Status   *string `query:"status" validate:"omitempty,oneof=pending approved"`
	Category *string `query:"category"`
	UserID   *uint   `query:"user_id"`
}

// UserLite summarizes a user inside log responses.
type UserLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LogResponse is returned to API clients when viewing recycling logs.
type LogResponse struct {
	ID              uint       `json:"id"`
	UserID          uint       `json:"user_id"`
	Category        string     `json:"category"`
	Weight          float64    `json:"weight"`
	Description     string     `json:"description"`
	ImageURL        string     `json:"image_url"`
	Status          string     `json:"status"`
	EcoPointsEarned int        `json:"eco_points_earned"`
	VerifiedBy      *uint      `json:"verified_by"`
	VerifiedAt      *time.Time `json:"verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	User            UserLite   `json:"user"`
	VerifierName    string     `json:"verified_by_name,omitempty"`
}

// NewLogResponse converts a RecyclingLog model into a DTO.
func NewLogResponse(model models.RecyclingLog) LogResponse {
	response := LogResponse{
		ID:              model.ID,
		UserID:          model.UserID,
		Category:        model.Category,
		Weight:          model.Weight,
		Description:     model.Description,
		ImageURL:        model.ImageURL,
		Status:          model.Status,
		EcoPointsEarned: model.EcoPointsEarned,
		VerifiedBy:      model.VerifiedBy,
		VerifiedAt:      model.VerifiedAt,
		CreatedAt:       model.CreatedAt,
	}

	if model.User.ID != 0 {
		response.User = UserLite{
			ID:    model.User.ID,
			Name:  model.User.Name,
			Email: model.User.Email,
			Role:  model.User.Role,
		}
	}

	if model.Verifier != nil && model.Verifier.ID != 0 {
		response.VerifierName = model.Verifier.Name
	}

	return response
}

// NewLogResponseSlice converts recycling log models into DTOs.
func NewLogResponseSlice(logs []models.RecyclingLog) []LogResponse {
	responses := make([]LogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, NewLogResponse(log))
	}

	return responses
}

// LogStats aggregates a user's recycling activity.
type LogStats struct {
	TotalLogs     int64   `json:"total_logs"`
	TotalWeight   float64 `json:"total_weight"`
	TotalPoints   int64   `json:"total_points"`
	ApprovedCount int64   `json:"approved_count"`
	PendingCount  int64   `json:"pending_count"`
}

// CategoryStat is one row of the approved-only category breakdown.
type CategoryStat struct {
	Category    string  `json:"category"`
	Count       int64   `json:"count"`
	TotalWeight float64 `json:"total_weight"`
	TotalPoints int64   `json:"total_points"`
}

// MyLogsResponse pairs a user's logs with their aggregate stats.
type MyLogsResponse struct {
	Logs  []LogResponse `json:"logs"`
	Stats LogStats      `json:"stats"`
}

// StatsResponse is the approved-activity report for a single user.
type StatsResponse struct {
	TotalLogs     int64          `json:"total_logs"`
	TotalWeight   float64        `json:"total_weight"`
	TotalPoints   int64          `json:"total_points"`
	ApprovedCount int64          `json:"approved_count"`
	ByCategory    []CategoryStat `json:"by_category"`
}

// RejectResponse confirms a rejection and echoes the reason used.
type RejectResponse struct {
	Message string `json:"message"`
	Reason  string `json:"reason"`
}
