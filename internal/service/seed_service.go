package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/models"
	"github.com/noah-isme/siakad-go-api/internal/repository"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
	// ErrSeedUnknownClass indicates a seeded student names a class that does not exist.
	ErrSeedUnknownClass = errors.New("student references an unknown class")
)

// SeedService loads reference data (subjects, classes, students) in bulk.
type SeedService interface {
	SeedReference(ctx context.Context, token string, req dto.SeedReferenceRequest) (dto.SeedReferenceResponse, error)
}

type seedService struct {
	repo      repository.SeedRepository
	validator *validation.Validator
	enabled   bool
	token     string
	logger    zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(repo repository.SeedRepository, validator *validation.Validator, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		repo:      repo,
		validator: validator,
		enabled:   enabled,
		token:     token,
		logger:    logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedReference(ctx context.Context, token string, req dto.SeedReferenceRequest) (dto.SeedReferenceResponse, error) {
	if !s.enabled {
		return dto.SeedReferenceResponse{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return dto.SeedReferenceResponse{}, ErrSeedUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.SeedReferenceResponse{}, err
	}

	var result dto.SeedReferenceResponse
	var err error

	if subjects := normalizeSubjects(req.Subjects); len(subjects) > 0 {
		if result.Subjects, err = s.repo.UpsertSubjects(ctx, subjects); err != nil {
			return dto.SeedReferenceResponse{}, err
		}
	}

	if classes := normalizeClasses(req.Classes); len(classes) > 0 {
		if result.Classes, err = s.repo.UpsertClasses(ctx, classes); err != nil {
			return dto.SeedReferenceResponse{}, err
		}
	}

	if len(req.Students) > 0 {
		students, err := s.resolveStudents(ctx, req.Students)
		if err != nil {
			return dto.SeedReferenceResponse{}, err
		}
		if result.Students, err = s.repo.UpsertStudents(ctx, students); err != nil {
			return dto.SeedReferenceResponse{}, err
		}
	}

	s.logger.Info().
		Int64("subjects", result.Subjects).
		Int64("classes", result.Classes).
		Int64("students", result.Students).
		Msg("reference data seeded")
	return result, nil
}

func (s *seedService) resolveStudents(ctx context.Context, items []dto.SeedStudent) ([]models.Student, error) {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, strings.TrimSpace(item.ClassName))
	}

	classIDs, err := s.repo.ClassIDsByName(ctx, names)
	if err != nil {
		return nil, err
	}

	students := make([]models.Student, 0, len(items))
	for _, item := range items {
		className := strings.TrimSpace(item.ClassName)
		classID, ok := classIDs[className]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSeedUnknownClass, className)
		}
		students = append(students, models.Student{
			Name:          strings.TrimSpace(item.Name),
			StudentNumber: strings.TrimSpace(item.StudentNumber),
			ClassID:       classID,
		})
	}
	return students, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) == 1
}

func normalizeSubjects(items []dto.SeedSubject) []models.Subject {
	subjects := make([]models.Subject, 0, len(items))
	for _, item := range items {
		subjects = append(subjects, models.Subject{
			Code: strings.ToUpper(strings.TrimSpace(item.Code)),
			Name: strings.TrimSpace(item.Name),
		})
	}
	return subjects
}

func normalizeClasses(items []dto.SeedClass) []models.Class {
	classes := make([]models.Class, 0, len(items))
	for _, item := range items {
		classes = append(classes, models.Class{
			Name:       strings.TrimSpace(item.Name),
			GradeLevel: item.GradeLevel,
		})
	}
	return classes
}
