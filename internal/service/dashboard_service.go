package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/models"
	"github.com/noah-isme/siakad-go-api/internal/observability"
	"github.com/noah-isme/siakad-go-api/internal/repository"
)

// DashboardCache drops cached dashboards after the underlying data changed.
type DashboardCache interface {
	Invalidate(ctx context.Context, teacherID uint)
}

// DashboardService produces the teacher landing summary.
type DashboardService interface {
	DashboardCache
	Get(ctx context.Context, teacherID uint) (dto.DashboardResponse, error)
}

type dashboardService struct {
	teachers   repository.TeacherRepository
	students   repository.StudentRepository
	attendance repository.AttendanceRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewDashboardService builds the dashboard aggregator. A nil cache disables caching.
func NewDashboardService(teachers repository.TeacherRepository, students repository.StudentRepository, attendance repository.AttendanceRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		teachers:   teachers,
		students:   students,
		attendance: attendance,
		cache:      cache,
		cacheTTL:   ttl,
		logger:     logger.With().Str("component", "dashboard_service").Logger(),
		now:        time.Now,
	}
}

func (s *dashboardService) cacheKey(teacherID uint, date string) string {
	return fmt.Sprintf("dashboard:teacher:%d:%s", teacherID, date)
}

func (s *dashboardService) Get(ctx context.Context, teacherID uint) (dto.DashboardResponse, error) {
	today := s.now().Format(models.AttendanceDateLayout)
	cacheKey := s.cacheKey(teacherID, today)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				observability.DashboardCacheLookups().WithLabelValues("hit").Inc()
				s.logger.Debug().Uint("teacher_id", teacherID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
		observability.DashboardCacheLookups().WithLabelValues("miss").Inc()
	}

	teacher, err := s.teachers.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DashboardResponse{}, ErrTeacherNotFound
		}
		return dto.DashboardResponse{}, err
	}

	totalStudents, err := s.students.Count(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	todayAttendance, err := s.attendance.CountForTeacherOnDate(ctx, teacherID, today)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	response := dto.DashboardResponse{
		Teacher:         teacher.Name,
		Subjects:        dto.NewSubjectResponses(teacher.Subjects),
		TotalStudents:   totalStudents,
		TodayAttendance: todayAttendance,
		Date:            today,
	}

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *dashboardService) Invalidate(ctx context.Context, teacherID uint) {
	if s.cache == nil {
		return
	}
	key := s.cacheKey(teacherID, s.now().Format(models.AttendanceDateLayout))
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("teacher_id", teacherID).Msg("failed to invalidate dashboard cache")
	}
}
