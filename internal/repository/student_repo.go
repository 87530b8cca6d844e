package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/siakad-go-api/internal/models"
)

// StudentFilter narrows student listings.
type StudentFilter struct {
	Search     string
	ClassID    uint
	GradeLevel int
	Page       int
	PageSize   int
}

// StudentRepository provides access to student records.
type StudentRepository interface {
	List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error)
	ListByClass(ctx context.Context, classID uint) ([]models.Student, error)
	Count(ctx context.Context) (int64, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{}).
		Joins("JOIN classes ON classes.id = students.class_id")

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(students.name) LIKE ? OR LOWER(students.student_number) LIKE ?", like, like)
	}

	if filter.ClassID > 0 {
		query = query.Where("students.class_id = ?", filter.ClassID)
	}

	if filter.GradeLevel > 0 {
		query = query.Where("classes.grade_level = ?", filter.GradeLevel)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = paginate(query.Order("students.name"), filter.Page, filter.PageSize)

	var students []models.Student
	if err := query.Preload("Class").Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepository) ListByClass(ctx context.Context, classID uint) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("name").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Student{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	if pageSize <= 0 {
		return query
	}
	if page <= 0 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
