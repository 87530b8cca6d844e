package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/service"
	"github.com/noah-isme/siakad-go-api/internal/utils"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

// ProfileHandler serves the signed-in teacher's own account.
type ProfileHandler struct {
	auth   service.AuthService
	errors errorResponder
}

// NewProfileHandler constructs the profile handler.
func NewProfileHandler(auth service.AuthService, validator *validation.Validator, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		auth:   auth,
		errors: errorResponder{validator: validator, logger: logger.With().Str("component", "profile_handler").Logger()},
	}
}

// Register wires profile routes.
func (h *ProfileHandler) Register(router fiber.Router) {
	router.Get("", h.profile)
	router.Put("/password", h.changePassword)
}

func (h *ProfileHandler) profile(c *fiber.Ctx) error {
	profile, err := h.auth.Profile(c.UserContext(), teacherIDFromContext(c))
	if err != nil {
		return h.errors.respond(c, err, "failed to load profile")
	}
	return utils.SendSuccess(c, "profile retrieved", profile)
}

func (h *ProfileHandler) changePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.auth.ChangePassword(c.UserContext(), teacherIDFromContext(c), req); err != nil {
		return h.errors.respond(c, err, "failed to change password")
	}
	return utils.SendSuccess(c, "password changed", nil)
}
