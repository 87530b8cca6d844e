package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/service"
	"github.com/noah-isme/siakad-go-api/internal/utils"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

// AttendanceHandler serves attendance sheets and their history.
type AttendanceHandler struct {
	service service.AttendanceService
	errors  errorResponder
}

// NewAttendanceHandler constructs the attendance handler.
func NewAttendanceHandler(svc service.AttendanceService, validator *validation.Validator, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: svc,
		errors:  errorResponder{validator: validator, logger: logger.With().Str("component", "attendance_handler").Logger()},
	}
}

// Register wires attendance routes.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Get("/sheet", h.sheet)
	router.Put("/sheet", h.save)
	router.Get("/history", h.history)
}

func (h *AttendanceHandler) sheet(c *fiber.Ctx) error {
	var query dto.AttendanceSheetQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	sheet, err := h.service.Sheet(c.UserContext(), teacherIDFromContext(c), query)
	if err != nil {
		return h.errors.respond(c, err, "failed to load attendance sheet")
	}
	return utils.SendSuccess(c, "attendance sheet retrieved", sheet)
}

func (h *AttendanceHandler) save(c *fiber.Ctx) error {
	var req dto.SaveAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	sheet, err := h.service.Save(c.UserContext(), teacherIDFromContext(c), req)
	if err != nil {
		return h.errors.respond(c, err, "failed to save attendance")
	}
	return utils.SendSuccess(c, "attendance saved", sheet)
}

func (h *AttendanceHandler) history(c *fiber.Ctx) error {
	var query dto.AttendanceHistoryQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.service.History(c.UserContext(), teacherIDFromContext(c), query)
	if err != nil {
		return h.errors.respond(c, err, "failed to load attendance history")
	}
	return utils.OK(c, result.Items, "attendance history retrieved", result.Pagination)
}
