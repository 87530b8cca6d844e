package dto

import (
	"time"

	"github.com/noah-isme/siakad-go-api/internal/models"
)

// RegisterRequest captures a teacher sign-up.
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,notblank,max=255"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	SubjectIDs      []uint `json:"subject_ids" validate:"required,min=1,dive,gt=0"`
}

// LoginRequest captures credentials for issuing a token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest captures a password update for the signed-in teacher.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// TeacherResponse serializes a teacher profile.
type TeacherResponse struct {
	ID        uint              `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Role      string            `json:"role"`
	Subjects  []SubjectResponse `json:"subjects"`
	CreatedAt time.Time         `json:"created_at"`
}

// AuthResponse carries an issued bearer token.
type AuthResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	ExpiresAt time.Time       `json:"expires_at"`
	Teacher   TeacherResponse `json:"teacher"`
}

// NewTeacherResponse converts a teacher model into a DTO.
func NewTeacherResponse(teacher models.Teacher) TeacherResponse {
	return TeacherResponse{
		ID:        teacher.ID,
		Name:      teacher.Name,
		Email:     teacher.Email,
		Role:      teacher.Role,
		Subjects:  NewSubjectResponses(teacher.Subjects),
		CreatedAt: teacher.CreatedAt,
	}
}
