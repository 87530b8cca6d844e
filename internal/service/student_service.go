package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/models"
	"github.com/noah-isme/siakad-go-api/internal/repository"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

var (
	// ErrSubjectNotAssigned indicates the teacher does not teach the requested subject.
	ErrSubjectNotAssigned = errors.New("subject is not assigned to this teacher")
	// ErrClassNotFound indicates the requested class does not exist.
	ErrClassNotFound = errors.New("class not found")
	// ErrStudentNotInClass indicates a sheet entry references a student outside the class.
	ErrStudentNotInClass = errors.New("student does not belong to the class")
	// ErrDuplicateStudent indicates a sheet lists the same student twice.
	ErrDuplicateStudent = errors.New("student appears more than once in the sheet")
)

// StudentService exposes reference data and the student directory.
type StudentService interface {
	Catalogue(ctx context.Context) ([]dto.SubjectResponse, error)
	Subjects(ctx context.Context, teacherID uint) ([]dto.SubjectResponse, error)
	Classes(ctx context.Context) ([]dto.ClassResponse, error)
	Students(ctx context.Context, req dto.StudentListRequest) (dto.StudentListResponse, error)
	Roster(ctx context.Context, teacherID, subjectID, classID uint) ([]models.Student, error)
}

type studentService struct {
	teachers  repository.TeacherRepository
	reference repository.ReferenceRepository
	students  repository.StudentRepository
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewStudentService constructs the reference data service.
func NewStudentService(teachers repository.TeacherRepository, reference repository.ReferenceRepository, students repository.StudentRepository, validator *validation.Validator, logger zerolog.Logger) StudentService {
	return &studentService{
		teachers:  teachers,
		reference: reference,
		students:  students,
		validator: validator,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) Catalogue(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.reference.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewSubjectResponses(subjects), nil
}

func (s *studentService) Subjects(ctx context.Context, teacherID uint) ([]dto.SubjectResponse, error) {
	teacher, err := s.teachers.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}
	return dto.NewSubjectResponses(teacher.Subjects), nil
}

func (s *studentService) Classes(ctx context.Context) ([]dto.ClassResponse, error) {
	classes, err := s.reference.ListClasses(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ClassResponse, 0, len(classes))
	for _, class := range classes {
		result = append(result, dto.NewClassResponse(class))
	}
	return result, nil
}

func (s *studentService) Students(ctx context.Context, req dto.StudentListRequest) (dto.StudentListResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentListResponse{}, err
	}

	students, total, err := s.students.List(ctx, repository.StudentFilter{
		Search:     strings.TrimSpace(req.Search),
		ClassID:    req.ClassID,
		GradeLevel: req.GradeLevel,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		return dto.StudentListResponse{}, err
	}

	items := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		items = append(items, dto.NewStudentResponse(student))
	}

	return dto.StudentListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, total),
	}, nil
}

// Roster returns the students of a class after checking the teacher may record for the subject.
func (s *studentService) Roster(ctx context.Context, teacherID, subjectID, classID uint) ([]models.Student, error) {
	teaches, err := s.teachers.TeachesSubject(ctx, teacherID, subjectID)
	if err != nil {
		return nil, err
	}
	if !teaches {
		return nil, ErrSubjectNotAssigned
	}

	if _, err := s.reference.GetClass(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	return s.students.ListByClass(ctx, classID)
}

// indexRoster maps student IDs to the class roster.
func indexRoster(students []models.Student) map[uint]models.Student {
	index := make(map[uint]models.Student, len(students))
	for _, student := range students {
		index[student.ID] = student
	}
	return index
}

// checkEntries verifies every student ID belongs to the roster and appears once.
func checkEntries(roster map[uint]models.Student, studentIDs []uint) error {
	seen := make(map[uint]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		if _, ok := roster[id]; !ok {
			return ErrStudentNotInClass
		}
		if _, dup := seen[id]; dup {
			return ErrDuplicateStudent
		}
		seen[id] = struct{}{}
	}
	return nil
}
