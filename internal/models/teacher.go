package models

import "time"

// Roles carried in issued tokens. Registration only ever issues RoleTeacher.
const (
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Teacher is an authenticated user who records attendance and grades.
type Teacher struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:32;not null;default:teacher" json:"role"`
	Subjects     []Subject `gorm:"many2many:teacher_subjects" json:"subjects,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
