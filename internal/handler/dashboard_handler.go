package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/siakad-go-api/internal/service"
	"github.com/noah-isme/siakad-go-api/internal/utils"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

// DashboardHandler serves the teacher dashboard summary.
type DashboardHandler struct {
	service service.DashboardService
	errors  errorResponder
}

// NewDashboardHandler constructs the dashboard handler.
func NewDashboardHandler(svc service.DashboardService, validator *validation.Validator, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: svc,
		errors:  errorResponder{validator: validator, logger: logger.With().Str("component", "dashboard_handler").Logger()},
	}
}

// Register wires dashboard routes.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("", h.get)
}

func (h *DashboardHandler) get(c *fiber.Ctx) error {
	summary, err := h.service.Get(c.UserContext(), teacherIDFromContext(c))
	if err != nil {
		return h.errors.respond(c, err, "failed to load dashboard")
	}
	return utils.SendSuccess(c, "dashboard retrieved", summary)
}
