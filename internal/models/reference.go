package models

import "time"

// Subject is a taught course (mata pelajaran).
type Subject struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Class is a homeroom group of students at one grade level.
type Class struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	GradeLevel int       `gorm:"not null" json:"grade_level"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Student is enrolled in exactly one class.
type Student struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null;index" json:"name"`
	StudentNumber string    `gorm:"size:64;uniqueIndex;not null" json:"student_number"`
	ClassID       uint      `gorm:"not null;index" json:"class_id"`
	Class         Class     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"class"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
