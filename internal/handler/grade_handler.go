package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/service"
	"github.com/noah-isme/siakad-go-api/internal/utils"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

// GradeHandler serves knowledge and practice grade sheets.
type GradeHandler struct {
	service service.GradeService
	errors  errorResponder
}

// NewGradeHandler constructs the grade handler.
func NewGradeHandler(svc service.GradeService, validator *validation.Validator, logger zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		service: svc,
		errors:  errorResponder{validator: validator, logger: logger.With().Str("component", "grade_handler").Logger()},
	}
}

// Register wires grade routes.
func (h *GradeHandler) Register(router fiber.Router) {
	knowledge := router.Group("/knowledge")
	knowledge.Get("/sheet", h.knowledgeSheet)
	knowledge.Put("/sheet", h.saveKnowledge)
	knowledge.Get("/history", h.knowledgeHistory)

	practice := router.Group("/practice")
	practice.Get("/sheet", h.practiceSheet)
	practice.Put("/sheet", h.savePractice)
	practice.Get("/history", h.practiceHistory)
}

func (h *GradeHandler) knowledgeSheet(c *fiber.Ctx) error {
	var query dto.GradeSheetQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	sheet, err := h.service.KnowledgeSheet(c.UserContext(), teacherIDFromContext(c), query)
	if err != nil {
		return h.errors.respond(c, err, "failed to load knowledge grades")
	}
	return utils.SendSuccess(c, "knowledge grades retrieved", sheet)
}

func (h *GradeHandler) saveKnowledge(c *fiber.Ctx) error {
	var req dto.SaveKnowledgeSheetRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	sheet, err := h.service.SaveKnowledge(c.UserContext(), teacherIDFromContext(c), req)
	if err != nil {
		return h.errors.respond(c, err, "failed to save knowledge grades")
	}
	return utils.SendSuccess(c, "knowledge grades saved", sheet)
}

func (h *GradeHandler) knowledgeHistory(c *fiber.Ctx) error {
	var query dto.GradeHistoryQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.service.KnowledgeHistory(c.UserContext(), teacherIDFromContext(c), query)
	if err != nil {
		return h.errors.respond(c, err, "failed to load knowledge grade history")
	}
	return utils.OK(c, result.Items, "knowledge grade history retrieved", result.Pagination)
}

func (h *GradeHandler) practiceSheet(c *fiber.Ctx) error {
	var query dto.GradeSheetQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	sheet, err := h.service.PracticeSheet(c.UserContext(), teacherIDFromContext(c), query)
	if err != nil {
		return h.errors.respond(c, err, "failed to load practice grades")
	}
	return utils.SendSuccess(c, "practice grades retrieved", sheet)
}

func (h *GradeHandler) savePractice(c *fiber.Ctx) error {
	var req dto.SavePracticeSheetRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	sheet, err := h.service.SavePractice(c.UserContext(), teacherIDFromContext(c), req)
	if err != nil {
		return h.errors.respond(c, err, "failed to save practice grades")
	}
	return utils.SendSuccess(c, "practice grades saved", sheet)
}

func (h *GradeHandler) practiceHistory(c *fiber.Ctx) error {
	var query dto.GradeHistoryQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.service.PracticeHistory(c.UserContext(), teacherIDFromContext(c), query)
	if err != nil {
		return h.errors.respond(c, err, "failed to load practice grade history")
	}
	return utils.OK(c, result.Items, "practice grade history retrieved", result.Pagination)
}
