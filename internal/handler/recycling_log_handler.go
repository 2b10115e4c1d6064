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

// RecyclingLogHandler manages submission and verification endpoints.
type RecyclingLogHandler struct {
	service service.RecyclingLogService
	logger  zerolog.Logger
}

// NewRecyclingLogHandler builds a recycling log handler instance.
func NewRecyclingLogHandler(service service.RecyclingLogService, logger zerolog.Logger) *RecyclingLogHandler {
	return &RecyclingLogHandler{
		service: service,
		logger:  logger.With().Str("component", "recycling_log_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. Role checks are
// explicit allow-lists per operation.
func (h *RecyclingLogHandler) Register(router fiber.Router) {
	router.Post("/submit", middleware.RequireRole(models.RoleStudent, models.RoleVolunteer), h.submit)
	router.Get("/my-logs", h.myLogs)
	router.Get("/stats", h.stats)
	router.Get("/", middleware.RequireRole(models.RoleAdmin), h.list)
	router.Get("/pending", middleware.RequireRole(models.RoleAdmin), h.pending)
	router.Patch("/:id/approve", middleware.RequireRole(models.RoleAdmin), h.approve)
	router.Patch("/:id/reject", middleware.RequireRole(models.RoleAdmin), h.reject)
	router.Delete("/:id", h.delete)
}

func (h *RecyclingLogHandler) submit(c *fiber.Ctx) error {
	var payload dto.LogCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	log, err := h.service.Submit(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "recycling log submitted, waiting for admin approval", log)
}

func (h *RecyclingLogHandler) myLogs(c *fiber.Ctx) error {
	response, err := h.service.MyLogs(c.UserContext(), actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "recycling logs retrieved", response)
}

func (h *RecyclingLogHandler) stats(c *fiber.Ctx) error {
	response, err := h.service.Stats(c.UserContext(), actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "recycling stats retrieved", response)
}

func (h *RecyclingLogHandler) list(c *fiber.Ctx) error {
	filter := dto.LogFilter{}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if userID, err := parseQueryUint(c, "user_id"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user_id")
	} else if userID != nil {
		filter.UserID = userID
	}

	logs, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "recycling logs retrieved", logs)
}

func (h *RecyclingLogHandler) pending(c *fiber.Ctx) error {
	logs, err := h.service.Pending(c.UserContext())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "pending recycling logs retrieved", logs)
}

func (h *RecyclingLogHandler) approve(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.LogApproveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	log, err := h.service.Approve(c.UserContext(), id, actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "recycling log approved", log)
}

func (h *RecyclingLogHandler) reject(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.LogRejectRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Reject(c.UserContext(), id, actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "recycling log rejected", response)
}

func (h *RecyclingLogHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), id, actorFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "recycling log deleted", nil)
}

func (h *RecyclingLogHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrLogNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "recycling log not found")
	case errors.Is(err, service.ErrLogAlreadyVerified):
		return utils.SendError(c, fiber.StatusBadRequest, "this log has already been verified")
	case errors.Is(err, service.ErrNotLogOwner):
		return utils.SendError(c, fiber.StatusForbidden, "access denied")
	case errors.Is(err, service.ErrVerifiedLogDelete):
		return utils.SendError(c, fiber.StatusBadRequest, "cannot delete verified logs")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
