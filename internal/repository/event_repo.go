package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/eco-campus/ecotrack-api/internal/models"
)

// EventRepository defines data operations for events and participation.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	CountParticipants(ctx context.Context, eventID uint) (int64, error)
	Join(ctx context.Context, participant *models.EventParticipant) error
	HasJoined(ctx context.Context, eventID, userID uint) (bool, error)
	SetAttendance(ctx context.Context, eventID, userID uint, attended bool) (int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository instantiates the repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) GetByID(ctx context.Context, id uint) (models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return models.Event{}, err
	}

	return event, nil
}

func (r *eventRepository) List(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.WithContext(ctx).Order("starts_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) CountParticipants(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.EventParticipant{}).
		Where("event_id = ?", eventID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *eventRepository) Join(ctx context.Context, participant *models.EventParticipant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

func (r *eventRepository) HasJoined(ctx context.Context, eventID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.EventParticipant{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *eventRepository) SetAttendance(ctx context.Context, eventID, userID uint, attended bool) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.EventParticipant{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Update("attended", attended)

	return result.RowsAffected, result.Error
}
