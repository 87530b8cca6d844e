package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/siakad-go-api/internal/models"
)

// GradeFilter narrows grade history queries. TeacherID is always required.
type GradeFilter struct {
	TeacherID    uint
	SubjectID    uint
	ClassID      uint
	Semester     int
	AcademicYear string
	Page         int
	PageSize     int
}

// GradeRepository persists knowledge and practice grade sheets.
type GradeRepository interface {
	ListKnowledge(ctx context.Context, key models.GradeKey) ([]models.KnowledgeGrade, error)
	ReplaceKnowledge(ctx context.Context, key models.GradeKey, grades []models.KnowledgeGrade) error
	KnowledgeHistory(ctx context.Context, filter GradeFilter) ([]models.KnowledgeGrade, int64, error)
	ListPractice(ctx context.Context, key models.GradeKey) ([]models.PracticeGrade, error)
	ReplacePractice(ctx context.Context, key models.GradeKey, grades []models.PracticeGrade) error
	PracticeHistory(ctx context.Context, filter GradeFilter) ([]models.PracticeGrade, int64, error)
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository constructs the grade repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func scopeGradeKey(db *gorm.DB, table string, key models.GradeKey) *gorm.DB {
	return db.Where(table+".teacher_id = ? AND "+table+".subject_id = ? AND "+table+".class_id = ? AND "+table+".semester = ? AND "+table+".academic_year = ?",
		key.TeacherID, key.SubjectID, key.ClassID, key.Semester, key.AcademicYear)
}

func scopeGradeFilter(db *gorm.DB, table string, filter GradeFilter) *gorm.DB {
	query := db.Where(table+".teacher_id = ?", filter.TeacherID)
	if filter.SubjectID > 0 {
		query = query.Where(table+".subject_id = ?", filter.SubjectID)
	}
	if filter.ClassID > 0 {
		query = query.Where(table+".class_id = ?", filter.ClassID)
	}
	if filter.Semester > 0 {
		query = query.Where(table+".semester = ?", filter.Semester)
	}
	if filter.AcademicYear != "" {
		query = query.Where(table+".academic_year = ?", filter.AcademicYear)
	}
	return query
}

// orderGradeHistory lists the newest academic year and semester first, students alphabetically within.
func orderGradeHistory(query *gorm.DB, table string) *gorm.DB {
	return query.
		Joins("JOIN students ON students.id = " + table + ".student_id").
		Order(table + ".academic_year DESC").
		Order(table + ".semester DESC").
		Order("students.name").
		Order(table + ".id")
}

// replaceSheet deletes every row under the key and inserts rows in one transaction.
// Concurrent saves of the same key resolve as last write wins.
func (r *gradeRepository) replaceSheet(ctx context.Context, model interface{}, table string, key models.GradeKey, rows interface{}, count int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := scopeGradeKey(tx, table, key).Delete(model).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(rows).Error
	})
}

func (r *gradeRepository) ListKnowledge(ctx context.Context, key models.GradeKey) ([]models.KnowledgeGrade, error) {
	var grades []models.KnowledgeGrade
	err := scopeGradeKey(r.db.WithContext(ctx), "knowledge_grades", key).
		Joins("JOIN students ON students.id = knowledge_grades.student_id").
		Order("students.name").
		Preload("Student").Preload("Subject").Preload("Class").
		Find(&grades).Error
	if err != nil {
		return nil, err
	}
	return grades, nil
}

func (r *gradeRepository) ReplaceKnowledge(ctx context.Context, key models.GradeKey, grades []models.KnowledgeGrade) error {
	return r.replaceSheet(ctx, &models.KnowledgeGrade{}, "knowledge_grades", key, &grades, len(grades))
}

func (r *gradeRepository) KnowledgeHistory(ctx context.Context, filter GradeFilter) ([]models.KnowledgeGrade, int64, error) {
	query := scopeGradeFilter(r.db.WithContext(ctx).Model(&models.KnowledgeGrade{}), "knowledge_grades", filter)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = paginate(orderGradeHistory(query, "knowledge_grades"), filter.Page, filter.PageSize)

	var grades []models.KnowledgeGrade
	if err := query.Preload("Student").Preload("Subject").Preload("Class").Find(&grades).Error; err != nil {
		return nil, 0, err
	}
	return grades, total, nil
}

func (r *gradeRepository) ListPractice(ctx context.Context, key models.GradeKey) ([]models.PracticeGrade, error) {
	var grades []models.PracticeGrade
	err := scopeGradeKey(r.db.WithContext(ctx), "practice_grades", key).
		Joins("JOIN students ON students.id = practice_grades.student_id").
		Order("students.name").
		Preload("Student").Preload("Subject").Preload("Class").
		Find(&grades).Error
	if err != nil {
		return nil, err
	}
	return grades, nil
}

func (r *gradeRepository) ReplacePractice(ctx context.Context, key models.GradeKey, grades []models.PracticeGrade) error {
	return r.replaceSheet(ctx, &models.PracticeGrade{}, "practice_grades", key, &grades, len(grades))
}

func (r *gradeRepository) PracticeHistory(ctx context.Context, filter GradeFilter) ([]models.PracticeGrade, int64, error) {
	query := scopeGradeFilter(r.db.WithContext(ctx).Model(&models.PracticeGrade{}), "practice_grades", filter)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = paginate(orderGradeHistory(query, "practice_grades"), filter.Page, filter.PageSize)

	var grades []models.PracticeGrade
	if err := query.Preload("Student").Preload("Subject").Preload("Class").Find(&grades).Error; err != nil {
		return nil, 0, err
	}
	return grades, total, nil
}
