package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/siakad-go-api/internal/models"
)

// AttendanceFilter narrows attendance history queries. TeacherID is always required.
type AttendanceFilter struct {
	TeacherID uint
	SubjectID uint
	ClassID   uint
	DateFrom  string
	DateTo    string
	Page      int
	PageSize  int
}

// AttendanceRepository persists attendance sheets.
type AttendanceRepository interface {
	ListSheet(ctx context.Context, key models.AttendanceKey) ([]models.Attendance, error)
	ReplaceSheet(ctx context.Context, key models.AttendanceKey, records []models.Attendance) error
	History(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, int64, error)
	CountForTeacherOnDate(ctx context.Context, teacherID uint, date string) (int64, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository constructs the attendance repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scopeAttendanceKey(db *gorm.DB, key models.AttendanceKey) *gorm.DB {
	return db.Where("attendances.teacher_id = ? AND attendances.subject_id = ? AND attendances.class_id = ? AND attendances.date = ?",
		key.TeacherID, key.SubjectID, key.ClassID, key.Date)
}

func (r *attendanceRepository) ListSheet(ctx context.Context, key models.AttendanceKey) ([]models.Attendance, error) {
	var records []models.Attendance
	err := scopeAttendanceKey(r.db.WithContext(ctx), key).
		Preload("Student").
		Order("attendances.id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ReplaceSheet deletes every row under the key and inserts records in one transaction.
func (r *attendanceRepository) ReplaceSheet(ctx context.Context, key models.AttendanceKey, records []models.Attendance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := scopeAttendanceKey(tx, key).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&records).Error
	})
}

func (r *attendanceRepository) History(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("attendances.teacher_id = ?", filter.TeacherID)

	if filter.SubjectID > 0 {
		query = query.Where("attendances.subject_id = ?", filter.SubjectID)
	}
	if filter.ClassID > 0 {
		query = query.Where("attendances.class_id = ?", filter.ClassID)
	}
	if filter.DateFrom != "" {
		query = query.Where("attendances.date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("attendances.date <= ?", filter.DateTo)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = paginate(query.Order("attendances.date DESC").Order("attendances.id"), filter.Page, filter.PageSize)

	var records []models.Attendance
	if err := query.Preload("Student").Preload("Subject").Preload("Class").Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *attendanceRepository) CountForTeacherOnDate(ctx context.Context, teacherID uint, date string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("teacher_id = ? AND date = ?", teacherID, date).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
