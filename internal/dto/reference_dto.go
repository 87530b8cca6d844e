package dto

import (
	"time"

	"github.com/noah-isme/siakad-go-api/internal/models"
)

// SubjectResponse serializes a subject.
type SubjectResponse struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// ClassResponse serializes a class.
type ClassResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	GradeLevel int    `json:"grade_level"`
}

// StudentListRequest defines filters for browsing students.
type StudentListRequest struct {
	Search     string `query:"search"`
	ClassID    uint   `query:"class_id"`
	GradeLevel int    `query:"grade_level" validate:"omitempty,min=1,max=13"`
	Page       int    `query:"page" validate:"omitempty,min=1"`
	PageSize   int    `query:"page_size" validate:"omitempty,min=1,max=500"`
}

// StudentResponse serializes a student with their class.
type StudentResponse struct {
	ID            uint          `json:"id"`
	Name          string        `json:"name"`
	StudentNumber string        `json:"student_number"`
	Class         ClassResponse `json:"class"`
	CreatedAt     time.Time     `json:"created_at"`
}

// StudentListResponse wraps a paginated student list.
type StudentListResponse struct {
	Items      []StudentResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// NewSubjectResponses converts subject models into DTOs.
func NewSubjectResponses(subjects []models.Subject) []SubjectResponse {
	result := make([]SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		result = append(result, SubjectResponse{ID: subject.ID, Code: subject.Code, Name: subject.Name})
	}
	return result
}

// NewClassResponse converts a class model into a DTO.
func NewClassResponse(class models.Class) ClassResponse {
	return ClassResponse{ID: class.ID, Name: class.Name, GradeLevel: class.GradeLevel}
}

// NewStudentResponse converts a student model into a DTO.
func NewStudentResponse(student models.Student) StudentResponse {
	return StudentResponse{
		ID:            student.ID,
		Name:          student.Name,
		StudentNumber: student.StudentNumber,
		Class:         NewClassResponse(student.Class),
		CreatedAt:     student.CreatedAt,
	}
}
