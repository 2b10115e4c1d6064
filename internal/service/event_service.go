package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/eco-campus/ecotrack-api/internal/dto"
	"github.com/eco-campus/ecotrack-api/internal/models"
	"github.com/eco-campus/ecotrack-api/internal/repository"
)

// ErrEventNotFound indicates the event was not located.
var ErrEventNotFound = errors.New("event not found")

// ErrAlreadyJoined indicates the user already signed up for the event.
var ErrAlreadyJoined = errors.New("already joined this event")

// ErrNotParticipant indicates attendance was marked for a non-participant.
var ErrNotParticipant = errors.New("user has not joined this event")

// EventService covers organizer-run events. Attendance only flips a flag;
// the points ledger is mutated solely by log approvals and admin adjustment.
type EventService interface {
	Create(ctx context.Context, actor Actor, payload dto.EventCreateRequest) (dto.EventResponse, error)
	List(ctx context.Context) ([]dto.EventResponse, error)
	Join(ctx context.Context, eventID uint, actor Actor) error
	SetAttendance(ctx context.Context, eventID uint, payload dto.EventAttendanceRequest) error
}

type eventService struct {
	events    repository.EventRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEventService constructs the event service.
func NewEventService(events repository.EventRepository, validate *validator.Validate, logger zerolog.Logger) EventService {
	return &eventService{
		events:    events,
		validator: validate,
		logger:    logger.With().Str("component", "event_service").Logger(),
	}
}

func (s *eventService) Create(ctx context.Context, actor Actor, payload dto.EventCreateRequest) (dto.EventResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EventResponse{}, err
	}

	event := models.Event{
		Title:       strings.TrimSpace(payload.Title),
		Description: strings.TrimSpace(payload.Description),
		Location:    strings.TrimSpace(payload.Location),
		StartsAt:    payload.StartsAt,
		CreatedBy:   actor.ID,
	}

	if err := s.events.Create(ctx, &event); err != nil {
		return dto.EventResponse{}, err
	}

	s.logger.Info().Uint("event_id", event.ID).Uint("organizer_id", actor.ID).Msg("event created")

	return dto.NewEventResponse(event, 0), nil
}

func (s *eventService) List(ctx context.Context) ([]dto.EventResponse, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.EventResponse, 0, len(events))
	for _, event := range events {
		participants, err := s.events.CountParticipants(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, dto.NewEventResponse(event, participants))
	}

	return responses, nil
}

func (s *eventService) Join(ctx context.Context, eventID uint, actor Actor) error {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	joined, err := s.events.HasJoined(ctx, eventID, actor.ID)
	if err != nil {
		return err
	}
	if joined {
		return ErrAlreadyJoined
	}

	participant := models.EventParticipant{EventID: eventID, UserID: actor.ID}
	return s.events.Join(ctx, &participant)
}

func (s *eventService) SetAttendance(ctx context.Context, eventID uint, payload dto.EventAttendanceRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	affected, err := s.events.SetAttendance(ctx, eventID, payload.UserID, payload.Attended)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotParticipant
	}

	return nil
}
