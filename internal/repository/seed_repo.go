package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/siakad-go-api/internal/models"
)

// SeedRepository upserts reference data keyed by natural identifiers.
type SeedRepository interface {
	UpsertSubjects(ctx context.Context, subjects []models.Subject) (int64, error)
	UpsertClasses(ctx context.Context, classes []models.Class) (int64, error)
	UpsertStudents(ctx context.Context, students []models.Student) (int64, error)
	ClassIDsByName(ctx context.Context, names []string) (map[string]uint, error)
}

type seedRepository struct {
	db *gorm.DB
}

// NewSeedRepository constructs the seed repository.
func NewSeedRepository(db *gorm.DB) SeedRepository {
	return &seedRepository{db: db}
}

func (r *seedRepository) UpsertSubjects(ctx context.Context, subjects []models.Subject) (int64, error) {
	if len(subjects) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(&subjects)
	return result.RowsAffected, result.Error
}

func (r *seedRepository) UpsertClasses(ctx context.Context, classes []models.Class) (int64, error) {
	if len(classes) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"grade_level", "updated_at"}),
	}).Create(&classes)
	return result.RowsAffected, result.Error
}

func (r *seedRepository) UpsertStudents(ctx context.Context, students []models.Student) (int64, error) {
	if len(students) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "class_id", "updated_at"}),
	}).Create(&students)
	return result.RowsAffected, result.Error
}

func (r *seedRepository) ClassIDsByName(ctx context.Context, names []string) (map[string]uint, error) {
	var classes []models.Class
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&classes).Error; err != nil {
		return nil, err
	}
	ids := make(map[string]uint, len(classes))
	for _, class := range classes {
		ids[class.Name] = class.ID
	}
	return ids, nil
}
