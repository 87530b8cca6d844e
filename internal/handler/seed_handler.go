package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/service"
	"github.com/noah-isme/siakad-go-api/internal/utils"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

// HeaderSeedToken authorises seeding requests.
const HeaderSeedToken = "X-Seed-Token"

// SeedHandler exposes tooling endpoints for loading reference data.
type SeedHandler struct {
	service service.SeedService
	errors  errorResponder
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(svc service.SeedService, validator *validation.Validator, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: svc,
		errors:  errorResponder{validator: validator, logger: logger.With().Str("component", "seed_handler").Logger()},
	}
}

// Register wires seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/reference", h.reference)
}

func (h *SeedHandler) reference(c *fiber.Ctx) error {
	var req dto.SeedReferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.SeedReference(c.UserContext(), c.Get(HeaderSeedToken), req)
	if err != nil {
		return h.errors.respond(c, err, "seed operation failed")
	}
	return utils.SendSuccess(c, "reference data seeded", result)
}
