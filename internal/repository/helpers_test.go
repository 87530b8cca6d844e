package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/siakad-go-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
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

func floatPtr(v float64) *float64 {
	return &v
}
