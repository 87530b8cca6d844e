package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/siakad-go-api/internal/models"
)

func TestAttendanceRepositoryReplaceSheet(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewAttendanceRepository(db)
	ctx := context.Background()

	key := models.AttendanceKey{TeacherID: f.teacher.ID, SubjectID: f.math.ID, ClassID: f.classA.ID, Date: "2024-08-01"}
	otherDay := key
	otherDay.Date = "2024-08-02"

	first := []models.Attendance{
		{TeacherID: key.TeacherID, SubjectID: key.SubjectID, ClassID: key.ClassID, Date: key.Date, StudentID: f.students[0].ID, Status: models.AttendancePresent},
		{TeacherID: key.TeacherID, SubjectID: key.SubjectID, ClassID: key.ClassID, Date: key.Date, StudentID: f.students[1].ID, Status: models.AttendanceSick, Notes: "demam"},
	}
	require.NoError(t, repo.ReplaceSheet(ctx, key, first))
	require.NoError(t, repo.ReplaceSheet(ctx, otherDay, []models.Attendance{
		{TeacherID: key.TeacherID, SubjectID: key.SubjectID, ClassID: key.ClassID, Date: otherDay.Date, StudentID: f.students[0].ID, Status: models.AttendanceAbsent},
	}))

	second := []models.Attendance{
		{TeacherID: key.TeacherID, SubjectID: key.SubjectID, ClassID: key.ClassID, Date: key.Date, StudentID: f.students[1].ID, Status: models.AttendanceExcused},
	}
	require.NoError(t, repo.ReplaceSheet(ctx, key, second))

	sheet, err := repo.ListSheet(ctx, key)
	require.NoError(t, err)
	require.Len(t, sheet, 1, "previous rows under the key must be replaced")
	require.Equal(t, models.AttendanceExcused, sheet[0].Status)
	require.Equal(t, "Andi Saputra", sheet[0].Student.Name)

	untouched, err := repo.ListSheet(ctx, otherDay)
	require.NoError(t, err)
	require.Len(t, untouched, 1)

	count, err := repo.CountForTeacherOnDate(ctx, f.teacher.ID, "2024-08-02")
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestAttendanceRepositoryHistoryFilters(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewAttendanceRepository(db)
	ctx := context.Background()

	for _, date := range []string{"2024-08-01", "2024-08-05", "2024-08-10"} {
		key := models.AttendanceKey{TeacherID: f.teacher.ID, SubjectID: f.math.ID, ClassID: f.classA.ID, Date: date}
		require.NoError(t, repo.ReplaceSheet(ctx, key, []models.Attendance{
			{TeacherID: key.TeacherID, SubjectID: key.SubjectID, ClassID: key.ClassID, Date: date, StudentID: f.students[0].ID, Status: models.AttendancePresent},
		}))
	}

	items, total, err := repo.History(ctx, AttendanceFilter{TeacherID: f.teacher.ID, DateFrom: "2024-08-02", DateTo: "2024-08-10"})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Equal(t, "2024-08-10", items[0].Date, "newest first")
	require.Equal(t, "Matematika", items[0].Subject.Name)
	require.Equal(t, "X IPA 1", items[0].Class.Name)

	none, total, err := repo.History(ctx, AttendanceFilter{TeacherID: f.teacher.ID + 1})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, none)
}
