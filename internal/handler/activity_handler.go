package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/service"
	"github.com/noah-isme/siakad-go-api/internal/utils"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

// ActivityHandler lists the signed-in teacher's audit trail.
type ActivityHandler struct {
	service service.ActivityService
	errors  errorResponder
}

// NewActivityHandler constructs the activity handler.
func NewActivityHandler(svc service.ActivityService, validator *validation.Validator, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: svc,
		errors:  errorResponder{validator: validator, logger: logger.With().Str("component", "activity_handler").Logger()},
	}
}

// Register wires activity routes.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	var req dto.ActivityListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.service.List(c.UserContext(), teacherIDFromContext(c), req)
	if err != nil {
		return h.errors.respond(c, err, "failed to load activity")
	}
	return utils.OK(c, result.Items, "activity retrieved", result.Pagination)
}
