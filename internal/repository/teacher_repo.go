package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/siakad-go-api/internal/models"
)

// TeacherRepository persists teacher accounts and their subject assignments.
type TeacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher, subjectIDs []uint) error
	GetByID(ctx context.Context, id uint) (models.Teacher, error)
	GetByEmail(ctx context.Context, email string) (models.Teacher, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	TeachesSubject(ctx context.Context, teacherID, subjectID uint) (bool, error)
}

type teacherRepository struct {
	db *gorm.DB
}

// NewTeacherRepository constructs a teacher repository.
func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) Create(ctx context.Context, teacher *models.Teacher, subjectIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Subjects").Create(teacher).Error; err != nil {
			return err
		}

		if len(subjectIDs) == 0 {
			return nil
		}

		var subjects []models.Subject
		if err := tx.Where("id IN ?", subjectIDs).Order("name").Find(&subjects).Error; err != nil {
			return err
		}
		if len(subjects) != len(uniqueIDs(subjectIDs)) {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Model(teacher).Association("Subjects").Append(&subjects); err != nil {
			return err
		}
		teacher.Subjects = subjects
		return nil
	})
}

func (r *teacherRepository) GetByID(ctx context.Context, id uint) (models.Teacher, error) {
	var teacher models.Teacher
	err := r.db.WithContext(ctx).
		Preload("Subjects", func(db *gorm.DB) *gorm.DB { return db.Order("subjects.name") }).
		First(&teacher, id).Error
	if err != nil {
		return models.Teacher{}, err
	}
	return teacher, nil
}

func (r *teacherRepository) GetByEmail(ctx context.Context, email string) (models.Teacher, error) {
	var teacher models.Teacher
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&teacher).Error
	if err != nil {
		return models.Teacher{}, err
	}
	return teacher, nil
}

func (r *teacherRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	result := r.db.WithContext(ctx).Model(&models.Teacher{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *teacherRepository) TeachesSubject(ctx context.Context, teacherID, subjectID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("teacher_subjects").
		Where("teacher_id = ? AND subject_id = ?", teacherID, subjectID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
