package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/siakad-go-api/internal/models"
)

// ReferenceRepository reads subjects and classes.
type ReferenceRepository interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListClasses(ctx context.Context) ([]models.Class, error)
	GetSubject(ctx context.Context, id uint) (models.Subject, error)
	GetClass(ctx context.Context, id uint) (models.Class, error)
}

type referenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository constructs the reference data repository.
func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.db.WithContext(ctx).Order("name").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *referenceRepository) ListClasses(ctx context.Context) ([]models.Class, error) {
	var classes []models.Class
	if err := r.db.WithContext(ctx).Order("name").Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *referenceRepository) GetSubject(ctx context.Context, id uint) (models.Subject, error) {
	var subject models.Subject
	if err := r.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return models.Subject{}, err
	}
	return subject, nil
}

func (r *referenceRepository) GetClass(ctx context.Context, id uint) (models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).First(&class, id).Error; err != nil {
		return models.Class{}, err
	}
	return class, nil
}
