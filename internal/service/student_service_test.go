package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/siakad-go-api/internal/dto"
)

func TestStudentServiceReferenceData(t *testing.T) {
	s := newStack(t)
	f := s.fixture
	ctx := context.Background()

	catalogue, err := s.students.Catalogue(ctx)
	require.NoError(t, err)
	require.Len(t, catalogue, 2)

	subjects, err := s.students.Subjects(ctx, f.teacher.ID)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	require.Equal(t, "Matematika", subjects[0].Name)

	_, err = s.students.Subjects(ctx, 999)
	require.ErrorIs(t, err, ErrTeacherNotFound)

	classes, err := s.students.Classes(ctx)
	require.NoError(t, err)
	require.Equal(t, "X IPA 1", classes[0].Name)
	require.Equal(t, 10, classes[0].GradeLevel)
}

func TestStudentServiceList(t *testing.T) {
	s := newStack(t)
	f := s.fixture
	ctx := context.Background()

	all, err := s.students.Students(ctx, dto.StudentListRequest{})
	require.NoError(t, err)
	require.Len(t, all.Items, 4)
	require.Equal(t, "Andi Saputra", all.Items[0].Name)

	byNumber, err := s.students.Students(ctx, dto.StudentListRequest{Search: "2001"})
	require.NoError(t, err)
	require.Len(t, byNumber.Items, 1)
	require.Equal(t, "XI IPS 2", byNumber.Items[0].Class.Name)

	byClass, err := s.students.Students(ctx, dto.StudentListRequest{ClassID: f.classA.ID, Search: "budi", Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, byClass.Items, 1)
	require.Equal(t, 1, byClass.Pagination.TotalPages)

	byLevel, err := s.students.Students(ctx, dto.StudentListRequest{GradeLevel: 11})
	require.NoError(t, err)
	require.Len(t, byLevel.Items, 1)

	_, err = s.students.Students(ctx, dto.StudentListRequest{GradeLevel: 20})
	require.Error(t, err)
}
