package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

func ptrUint(v uint) *uint {
	return &v
}

func TestActivityServiceRecordMasksSensitiveMetadata(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, validation.New(), testLogger())

	entry, err := svc.Record(context.Background(), ActivityEntry{
		ActorID:    1,
		ActorRole:  "Teacher",
		Action:     " Grades.Knowledge.Saved ",
		EntityType: "grade_sheet",
		EntityID:   ptrUint(5),
		Metadata: map[string]interface{}{
			"email":        "guru@sekolah.id",
			"access_token": "abc",
			"class_id":     3,
		},
	})
	require.NoError(t, err)
	require.Equal(t, "***", entry.Metadata["email"])
	require.Equal(t, "***", entry.Metadata["access_token"])
	require.Equal(t, 3, entry.Metadata["class_id"])
	require.Equal(t, "teacher", entry.ActorRole)
	require.Equal(t, "grades.knowledge.saved", entry.Action)

	_, err = svc.Record(context.Background(), ActivityEntry{ActorID: 1, EntityType: "grade_sheet"})
	require.Error(t, err)
}

func TestActivityServiceListIsScopedToTeacher(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, validation.New(), testLogger())
	ctx := context.Background()

	_, err := svc.Record(ctx, ActivityEntry{ActorID: 1, Action: ActionAttendanceSaved, EntityType: "attendance"})
	require.NoError(t, err)
	_, err = svc.Record(ctx, ActivityEntry{ActorID: 2, Action: ActionAttendanceSaved, EntityType: "attendance"})
	require.NoError(t, err)

	list, err := svc.List(ctx, 1, dto.ActivityListRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	require.Equal(t, uint(1), list.Items[0].ActorID)
	require.Equal(t, "system", normalizeRole(""))
	require.Equal(t, 1, list.Pagination.TotalPages)

	_, err = svc.List(ctx, 1, dto.ActivityListRequest{PageSize: 1000})
	require.Error(t, err)
}
