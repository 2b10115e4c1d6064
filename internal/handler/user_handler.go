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

// UserHandler manages profile, leaderboard and admin account endpoints.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler builds a user handler instance.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *UserHandler) Register(router fiber.Router) {
	router.Get("/profile", h.profile)
	router.Put("/profile", h.updateProfile)
	router.Get("/leaderboard", h.leaderboard)
	router.Get("/", middleware.RequireRole(models.RoleAdmin), h.list)
	router.Put("/:id", middleware.RequireRole(models.RoleAdmin), h.adminUpdate)
}

func (h *UserHandler) profile(c *fiber.Ctx) error {
	user, err := h.service.Profile(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "profile retrieved", user)
}

func (h *UserHandler) updateProfile(c *fiber.Ctx) error {
	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.UpdateProfile(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "profile updated successfully", user)
}

func (h *UserHandler) leaderboard(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	entries, err := h.service.Leaderboard(c.UserContext(), limit)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "leaderboard retrieved", entries)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "users retrieved", users)
}

func (h *UserHandler) adminUpdate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AdminUserUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.AdminUpdate(c.UserContext(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "user updated successfully", user)
}

func (h *UserHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusBadRequest, "email already in use")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
