package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/siakad-go-api/internal/middleware"
	"github.com/noah-isme/siakad-go-api/internal/service"
	"github.com/noah-isme/siakad-go-api/internal/utils"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

func teacherIDFromContext(c *fiber.Ctx) uint {
	id, _ := middleware.CurrentUserID(c)
	return id
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := middleware.RequestLogger(c, base)
	return &logger
}

// errorResponder maps service errors onto HTTP statuses.
type errorResponder struct {
	validator *validation.Validator
	logger    zerolog.Logger
}

func (r errorResponder) respond(c *fiber.Ctx, err error, fallback string) error {
	if details := r.validator.Details(err); details != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", details)
	}

	var scoreErr *service.ScoreError
	if errors.As(err, &scoreErr) {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid score", scoreErr.Fields)
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrSeedUnauthorized):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrSubjectNotAssigned), errors.Is(err, service.ErrSeedDisabled):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrClassNotFound),
		errors.Is(err, service.ErrTeacherNotFound),
		errors.Is(err, service.ErrNoReportData):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		return utils.Fail(c, fiber.StatusConflict, err.Error(), map[string]string{"email": err.Error()})
	case errors.Is(err, service.ErrWrongPassword):
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), map[string]string{"current_password": err.Error()})
	case errors.Is(err, service.ErrUnknownSubject):
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), map[string]string{"subject_ids": err.Error()})
	case errors.Is(err, service.ErrStudentNotInClass),
		errors.Is(err, service.ErrDuplicateStudent),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrSeedUnknownClass):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	requestLogger(r.logger, c).Error().Err(err).Str("path", c.Path()).Msg(fallback)
	return utils.SendError(c, fiber.StatusInternalServerError, fallback)
}
