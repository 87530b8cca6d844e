package handler

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/service"
	"github.com/noah-isme/siakad-go-api/internal/utils"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

// ReportHandler streams attendance and grade exports as file downloads.
type ReportHandler struct {
	service service.ReportService
	errors  errorResponder
}

// NewReportHandler constructs the report handler.
func NewReportHandler(svc service.ReportService, validator *validation.Validator, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: svc,
		errors:  errorResponder{validator: validator, logger: logger.With().Str("component", "report_handler").Logger()},
	}
}

// Register wires report routes.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("/attendance", h.attendance)
	router.Get("/knowledge", h.grades(h.service.Knowledge))
	router.Get("/practice", h.grades(h.service.Practice))
}

func (h *ReportHandler) attendance(c *fiber.Ctx) error {
	var req dto.AttendanceReportRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	file, err := h.service.Attendance(c.UserContext(), teacherIDFromContext(c), req)
	if err != nil {
		return h.errors.respond(c, err, "failed to export attendance report")
	}
	return sendReport(c, file)
}

type gradeExporter func(ctx context.Context, teacherID uint, req dto.GradeReportRequest) (service.ReportFile, error)

func (h *ReportHandler) grades(export gradeExporter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.GradeReportRequest
		if err := c.QueryParser(&req); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
		}

		file, err := export(c.UserContext(), teacherIDFromContext(c), req)
		if err != nil {
			return h.errors.respond(c, err, "failed to export grade report")
		}
		return sendReport(c, file)
	}
}

func sendReport(c *fiber.Ctx, file service.ReportFile) error {
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Set("X-Report-Rows", fmt.Sprintf("%d", file.Rows))
	return c.Status(fiber.StatusOK).Send(file.Content)
}
