package dto

import (
	"time"

	"github.com/eco-campus/ecotrack-api/internal/models"
)

// EventCreateRequest is the payload for creating an event.
type EventCreateRequest struct {
	Title       string    `json:"title" validate:"required,min=2,max=255"`
	Description string    `json:"description" validate:"omitempty,max=2000"`
	Location    string    `json:"location" validate:"omitempty,max=255"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
}

// EventAttendanceRequest marks a participant's attendance.
type EventAttendanceRequest struct {
	UserID   uint `json:"user_id" validate:"required,gt=0"`
	Attended bool `json:"attended"`
}

// EventResponse serializes an event with its participant count.
type EventResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	StartsAt     time.Time `json:"starts_at"`
	CreatedBy    uint      `json:"created_by"`
	Participants int64     `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewEventResponse converts an Event model into a DTO.
func NewEventResponse(model models.Event, participants int64) EventResponse {
	return EventResponse{
		ID:           model.ID,
		Title:        model.Title,
		Description:  model.Description,
		Location:     model.Location,
		StartsAt:     model.StartsAt,
		CreatedBy:    model.CreatedBy,
		Participants: participants,
		CreatedAt:    model.CreatedAt,
	}
}
