package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/models"
	"github.com/noah-isme/siakad-go-api/internal/repository"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

var (
	// ErrInvalidCredentials indicates the email/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken indicates another teacher already registered the email.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrTeacherNotFound indicates the authenticated teacher no longer exists.
	ErrTeacherNotFound = errors.New("teacher not found")
	// ErrUnknownSubject indicates a registration referenced a missing subject.
	ErrUnknownSubject = errors.New("one or more subjects do not exist")
	// ErrWrongPassword indicates the current password supplied for a change was wrong.
	ErrWrongPassword = errors.New("current password is incorrect")
)

const tokenTypeBearer = "Bearer"

// TeacherClaims are the JWT claims issued to teachers.
type TeacherClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService registers teachers and issues bearer tokens.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error)
	Profile(ctx context.Context, teacherID uint) (dto.TeacherResponse, error)
	ChangePassword(ctx context.Context, teacherID uint, req dto.ChangePasswordRequest) error
}

type authService struct {
	teachers  repository.TeacherRepository
	activity  ActivityRecorder
	validator *validation.Validator
	secret    []byte
	ttl       time.Duration
	cost      int
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(teachers repository.TeacherRepository, activity ActivityRecorder, validator *validation.Validator, secret string, ttl time.Duration, logger zerolog.Logger) AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authService{
		teachers:  teachers,
		activity:  activity,
		validator: validator,
		secret:    []byte(secret),
		ttl:       ttl,
		cost:      bcrypt.DefaultCost,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}

	email := normalizeEmail(req.Email)
	if _, err := s.teachers.GetByEmail(ctx, email); err == nil {
		return dto.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	teacher := models.Teacher{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleTeacher,
	}
	if err := s.teachers.Create(ctx, &teacher, req.SubjectIDs); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return dto.AuthResponse{}, ErrUnknownSubject
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return dto.AuthResponse{}, ErrEmailTaken
		}
		return dto.AuthResponse{}, err
	}

	created, err := s.teachers.GetByID(ctx, teacher.ID)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    created.ID,
		ActorRole:  created.Role,
		Action:     ActionTeacherRegistered,
		EntityType: models.EntityTeacher,
		EntityID:   &created.ID,
		Metadata:   map[string]interface{}{"email": created.Email, "subjects": len(created.Subjects)},
	})

	s.logger.Info().Uint("teacher_id", created.ID).Msg("teacher registered")
	return s.issue(created)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}

	teacher, err := s.teachers.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Debug().Uint("teacher_id", teacher.ID).Msg("password mismatch")
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	return s.issue(teacher)
}

func (s *authService) Profile(ctx context.Context, teacherID uint) (dto.TeacherResponse, error) {
	teacher, err := s.teachers.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherResponse{}, ErrTeacherNotFound
		}
		return dto.TeacherResponse{}, err
	}
	return dto.NewTeacherResponse(teacher), nil
}

func (s *authService) ChangePassword(ctx context.Context, teacherID uint, req dto.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	teacher, err := s.teachers.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.teachers.UpdatePassword(ctx, teacherID, string(hash)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		return err
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    teacher.ID,
		ActorRole:  teacher.Role,
		Action:     ActionPasswordChanged,
		EntityType: models.EntityTeacher,
		EntityID:   &teacher.ID,
	})
	return nil
}

func (s *authService) issue(teacher models.Teacher) (dto.AuthResponse, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.ttl)

	claims := TeacherClaims{
		Email: teacher.Email,
		Role:  teacher.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(teacher.ID), 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("sign token: %w", err)
	}

	return dto.AuthResponse{
		Token:     signed,
		TokenType: tokenTypeBearer,
		ExpiresAt: expiresAt,
		Teacher:   dto.NewTeacherResponse(teacher),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
