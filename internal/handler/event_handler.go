package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/eco-campus/ecotrack-api/internal/dto"
	"github.com/eco-campus/ecotrack-api/internal/middleware"
	"github.com/eco-campus/ecotrack-api/internal/models"
	"github.com/eco-campus/ecotrack-api/internal/service"
	"github.com/eco-campus/ecotrack-api/internal/utils"
)

// EventHandler manages organizer event endpoints.
type EventHandler struct {
	service service.EventService
	logger  zerolog.Logger
}

// NewEventHandler builds an event handler instance.
func NewEventHandler(service service.EventService, logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger.With().Str("component", "event_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EventHandler) Register(router fiber.Router) {
	router.Post("/", middleware.RequireRole(models.RoleOrganizer, models.RoleAdmin), h.create)
	router.Get("/", h.list)
	router.Post("/:id/join", middleware.RequireRole(models.RoleStudent, models.RoleVolunteer), h.join)
	router.Patch("/:id/attendance", middleware.RequireRole(models.RoleOrganizer, models.RoleAdmin), h.attendance)
}

func (h *EventHandler) create(c *fiber.Ctx) error {
	var payload dto.EventCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	event, err := h.service.Create(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "event created", event)
}

func (h *EventHandler) list(c *fiber.Ctx) error {
	events, err := h.service.List(c.UserContext())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "events retrieved", events)
}

func (h *EventHandler) join(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Join(c.UserContext(), id, actorFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "joined event", nil)
}

func (h *EventHandler) attendance(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.EventAttendanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.SetAttendance(c.UserContext(), id, payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance updated", nil)
}

func (h *EventHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "event not found")
	case errors.Is(err, service.ErrAlreadyJoined):
		return utils.SendError(c, fiber.StatusBadRequest, "already joined this event")
	case errors.Is(err, service.ErrNotParticipant):
		return utils.SendError(c, fiber.StatusBadRequest, "user has not joined this event")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
