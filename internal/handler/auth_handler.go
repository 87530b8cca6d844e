package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/service"
	"github.com/noah-isme/siakad-go-api/internal/utils"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	auth     service.AuthService
	students service.StudentService
	errors   errorResponder
}

// NewAuthHandler constructs the authentication handler.
func NewAuthHandler(auth service.AuthService, students service.StudentService, validator *validation.Validator, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		students: students,
		errors:   errorResponder{validator: validator, logger: logger.With().Str("component", "auth_handler").Logger()},
	}
}

// Register wires the public auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Get("/subjects", h.subjects)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.auth.Register(c.UserContext(), req)
	if err != nil {
		return h.errors.respond(c, err, "failed to register teacher")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "teacher registered", result)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.auth.Login(c.UserContext(), req)
	if err != nil {
		return h.errors.respond(c, err, "failed to login")
	}

	return utils.SendSuccess(c, "login successful", result)
}

// subjects lists every subject so the registration form can offer them.
func (h *AuthHandler) subjects(c *fiber.Ctx) error {
	subjects, err := h.students.Catalogue(c.UserContext())
	if err != nil {
		return h.errors.respond(c, err, "failed to load subjects")
	}
	return utils.SendSuccess(c, "subjects retrieved", subjects)
}
