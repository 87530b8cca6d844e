package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/service"
	"github.com/noah-isme/siakad-go-api/internal/utils"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

// ReferenceHandler serves subjects, classes and students.
type ReferenceHandler struct {
	service service.StudentService
	errors  errorResponder
}

// NewReferenceHandler constructs the reference data handler.
func NewReferenceHandler(svc service.StudentService, validator *validation.Validator, logger zerolog.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		service: svc,
		errors:  errorResponder{validator: validator, logger: logger.With().Str("component", "reference_handler").Logger()},
	}
}

// Register wires reference routes on the protected API group.
func (h *ReferenceHandler) Register(router fiber.Router) {
	router.Get("/subjects", h.subjects)
	router.Get("/classes", h.classes)
	router.Get("/students", h.students)
}

// subjects returns only the subjects taught by the signed-in teacher.
func (h *ReferenceHandler) subjects(c *fiber.Ctx) error {
	subjects, err := h.service.Subjects(c.UserContext(), teacherIDFromContext(c))
	if err != nil {
		return h.errors.respond(c, err, "failed to load subjects")
	}
	return utils.SendSuccess(c, "subjects retrieved", subjects)
}

func (h *ReferenceHandler) classes(c *fiber.Ctx) error {
	classes, err := h.service.Classes(c.UserContext())
	if err != nil {
		return h.errors.respond(c, err, "failed to load classes")
	}
	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *ReferenceHandler) students(c *fiber.Ctx) error {
	var req dto.StudentListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.service.Students(c.UserContext(), req)
	if err != nil {
		return h.errors.respond(c, err, "failed to load students")
	}
	return utils.OK(c, result.Items, "students retrieved", result.Pagination)
}
