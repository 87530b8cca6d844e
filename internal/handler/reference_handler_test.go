package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/handler"
	"github.com/noah-isme/siakad-go-api/internal/service"
)

type mockDashboardService struct {
	summary  dto.DashboardResponse
	lastUser uint
}

func (m *mockDashboardService) Invalidate(context.Context, uint) {}

func (m *mockDashboardService) Get(_ context.Context, teacherID uint) (dto.DashboardResponse, error) {
	m.lastUser = teacherID
	return m.summary, nil
}

type mockActivityService struct {
	result   dto.ActivityListResponse
	lastUser uint
	lastReq  dto.ActivityListRequest
}

func (m *mockActivityService) Record(context.Context, service.ActivityEntry) (dto.ActivityResponse, error) {
	return dto.ActivityResponse{}, nil
}

func (m *mockActivityService) List(_ context.Context, teacherID uint, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	m.lastUser = teacherID
	m.lastReq = req
	return m.result, nil
}

func TestReferenceHandlerScopesSubjectsToTeacher(t *testing.T) {
	svc := &mockStudentService{
		subjects: []dto.SubjectResponse{{ID: 1, Code: "MTK", Name: "Matematika"}},
		classes:  []dto.ClassResponse{{ID: 2, Name: "X IPA 1", GradeLevel: 10}},
	}
	app := newTeacherApp("/api/v1", handler.NewReferenceHandler(svc, testValidator, testLogger).Register)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/subjects", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, testTeacherID, svc.lastUser)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/classes", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var classes []dto.ClassResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &classes))
	require.Equal(t, "X IPA 1", classes[0].Name)
}

func TestReferenceHandlerStudentsFilters(t *testing.T) {
	svc := &mockStudentService{students: dto.StudentListResponse{
		Items:      []dto.StudentResponse{{ID: 11, Name: "Andi Saputra", StudentNumber: "1001"}},
		Pagination: dto.NewPaginationMeta(1, 50, 1),
	}}
	app := newTeacherApp("/api/v1", handler.NewReferenceHandler(svc, testValidator, testLogger).Register)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/students?search=andi&class_id=2&grade_level=10&page=1&page_size=50", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, dto.StudentListRequest{Search: "andi", ClassID: 2, GradeLevel: 10, Page: 1, PageSize: 50}, svc.lastList)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/students?class_id=abc", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDashboardHandler(t *testing.T) {
	svc := &mockDashboardService{summary: dto.DashboardResponse{Teacher: "Ibu Sari", TotalStudents: 3, TodayAttendance: 2, Date: "2026-10-17"}}
	app := newTeacherApp("/api/v1/dashboard", handler.NewDashboardHandler(svc, testValidator, testLogger).Register)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, testTeacherID, svc.lastUser)

	var data dto.DashboardResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &data))
	require.Equal(t, int64(2), data.TodayAttendance)
}

func TestActivityHandler(t *testing.T) {
	svc := &mockActivityService{result: dto.ActivityListResponse{Pagination: dto.NewPaginationMeta(1, 10, 0)}}
	app := newTeacherApp("/api/v1/activity", handler.NewActivityHandler(svc, testValidator, testLogger).Register)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/activity?action=grades.knowledge.saved&page_size=10", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, testTeacherID, svc.lastUser)
	require.Equal(t, "grades.knowledge.saved", svc.lastReq.Action)
	require.Equal(t, 10, svc.lastReq.PageSize)
}
