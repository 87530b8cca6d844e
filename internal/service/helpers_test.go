package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/siakad-go-api/internal/grading"
	"github.com/noah-isme/siakad-go-api/internal/models"
	"github.com/noah-isme/siakad-go-api/internal/repository"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func floatPtr(v float64) *float64 {
	return &v
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type fixture struct {
	teacher  models.Teacher
	math     models.Subject
	biology  models.Subject
	classA   models.Class
	classB   models.Class
	students []models.Student
}

// seedFixture creates a teacher who teaches Matematika only, two classes and four students.
func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	f := fixture{
		math:    models.Subject{Code: "MTK", Name: "Matematika"},
		biology: models.Subject{Code: "BIO", Name: "Biologi"},
		classA:  models.Class{Name: "X IPA 1", GradeLevel: 10},
		classB:  models.Class{Name: "XI IPS 2", GradeLevel: 11},
	}
	require.NoError(t, db.Create(&f.math).Error)
	require.NoError(t, db.Create(&f.biology).Error)
	require.NoError(t, db.Create(&f.classA).Error)
	require.NoError(t, db.Create(&f.classB).Error)

	f.teacher = models.Teacher{Name: "Ibu Sari", Email: "sari@sekolah.id", PasswordHash: "hash", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&f.teacher).Error)
	require.NoError(t, db.Model(&f.teacher).Association("Subjects").Append(&f.math))

	f.students = []models.Student{
		{Name: "Citra Lestari", StudentNumber: "1003", ClassID: f.classA.ID},
		{Name: "Andi Saputra", StudentNumber: "1001", ClassID: f.classA.ID},
		{Name: "Budi Santoso", StudentNumber: "1002", ClassID: f.classA.ID},
		{Name: "Dewi Anggraini", StudentNumber: "2001", ClassID: f.classB.ID},
	}
	for i := range f.students {
		require.NoError(t, db.Omit("Class").Create(&f.students[i]).Error)
	}

	return f
}

type publishedEvent struct {
	subject string
	data    interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{subject: subject, data: data})
	return nil
}

type memoryActivityRepo struct {
	entries []models.ActivityLog
}

func (m *memoryActivityRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	entry.ID = uint(len(m.entries) + 1)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryActivityRepo) List(ctx context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	var result []models.ActivityLog
	for _, entry := range m.entries {
		if entry.ActorID == filter.ActorID {
			result = append(result, entry)
		}
	}
	return result, int64(len(result)), nil
}

type countingCache struct {
	invalidated []uint
}

func (c *countingCache) Invalidate(ctx context.Context, teacherID uint) {
	c.invalidated = append(c.invalidated, teacherID)
}

// stack wires the services over one sqlite database.
type stack struct {
	db         *gorm.DB
	fixture    fixture
	validator  *validation.Validator
	publisher  *recordingPublisher
	activity   *memoryActivityRepo
	cache      *countingCache
	students   StudentService
	attendance AttendanceService
	grades     GradeService
	reports    ReportService
}

func newStack(t *testing.T) stack {
	t.Helper()
	db := setupServiceDB(t)
	f := seedFixture(t, db)
	validate := validation.New()

	teachers := repository.NewTeacherRepository(db)
	reference := repository.NewReferenceRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	gradeRepo := repository.NewGradeRepository(db)

	activityRepo := &memoryActivityRepo{}
	activity := NewActivityService(activityRepo, validate, testLogger())
	publisher := &recordingPublisher{}
	cache := &countingCache{}

	students := NewStudentService(teachers, reference, studentRepo, validate, testLogger())

	return stack{
		db:         db,
		fixture:    f,
		validator:  validate,
		publisher:  publisher,
		activity:   activityRepo,
		cache:      cache,
		students:   students,
		attendance: NewAttendanceService(students, attendanceRepo, publisher, activity, cache, validate, testLogger()),
		grades:     NewGradeService(students, gradeRepo, grading.DefaultScale, publisher, activity, validate, testLogger()),
		reports:    NewReportService(teachers, reference, attendanceRepo, gradeRepo, activity, validate, testLogger()),
	}
}
