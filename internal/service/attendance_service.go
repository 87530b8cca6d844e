package service

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/events"
	"github.com/noah-isme/siakad-go-api/internal/models"
	"github.com/noah-isme/siakad-go-api/internal/observability"
	"github.com/noah-isme/siakad-go-api/internal/repository"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

// ErrInvalidDateRange indicates date_from falls after date_to.
var ErrInvalidDateRange = errors.New("date_from must not be after date_to")

// AttendanceService records daily attendance per class and subject.
type AttendanceService interface {
	Sheet(ctx context.Context, teacherID uint, query dto.AttendanceSheetQuery) (dto.AttendanceSheetResponse, error)
	Save(ctx context.Context, teacherID uint, req dto.SaveAttendanceRequest) (dto.AttendanceSheetResponse, error)
	History(ctx context.Context, teacherID uint, query dto.AttendanceHistoryQuery) (dto.AttendanceHistoryResponse, error)
}

type attendanceService struct {
	roster    StudentService
	repo      repository.AttendanceRepository
	publisher events.Publisher
	activity  ActivityRecorder
	dashboard DashboardCache
	validator *validation.Validator
	sanitizer *bluemonday.Policy
	tracer    trace.Tracer
	logger    zerolog.Logger
}

// NewAttendanceService constructs the attendance service. publisher, activity and dashboard may be nil.
func NewAttendanceService(roster StudentService, repo repository.AttendanceRepository, publisher events.Publisher, activity ActivityRecorder, dashboard DashboardCache, validator *validation.Validator, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		roster:    roster,
		repo:      repo,
		publisher: publisher,
		activity:  activity,
		dashboard: dashboard,
		validator: validator,
		sanitizer: bluemonday.StrictPolicy(),
		tracer:    otel.Tracer("github.com/noah-isme/siakad-go-api/internal/service/attendance"),
		logger:    logger.With().Str("component", "attendance_service").Logger(),
	}
}

func (s *attendanceService) Sheet(ctx context.Context, teacherID uint, query dto.AttendanceSheetQuery) (dto.AttendanceSheetResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return dto.AttendanceSheetResponse{}, err
	}

	students, err := s.roster.Roster(ctx, teacherID, query.SubjectID, query.ClassID)
	if err != nil {
		return dto.AttendanceSheetResponse{}, err
	}

	key := models.AttendanceKey{TeacherID: teacherID, SubjectID: query.SubjectID, ClassID: query.ClassID, Date: query.Date}
	records, err := s.repo.ListSheet(ctx, key)
	if err != nil {
		return dto.AttendanceSheetResponse{}, err
	}

	return buildAttendanceSheet(key, students, records), nil
}

func (s *attendanceService) Save(ctx context.Context, teacherID uint, req dto.SaveAttendanceRequest) (dto.AttendanceSheetResponse, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.save")
	span.SetAttributes(
		attribute.Int("attendance.teacher_id", int(teacherID)),
		attribute.Int("attendance.subject_id", int(req.SubjectID)),
		attribute.Int("attendance.class_id", int(req.ClassID)),
		attribute.String("attendance.date", req.Date),
	)
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.AttendanceSheetResponse{}, err
	}

	students, err := s.roster.Roster(ctx, teacherID, req.SubjectID, req.ClassID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "roster_failed")
		return dto.AttendanceSheetResponse{}, err
	}

	ids := make([]uint, 0, len(req.Entries))
	for _, entry := range req.Entries {
		ids = append(ids, entry.StudentID)
	}
	if err := checkEntries(indexRoster(students), ids); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid_entries")
		return dto.AttendanceSheetResponse{}, err
	}

	key := models.AttendanceKey{TeacherID: teacherID, SubjectID: req.SubjectID, ClassID: req.ClassID, Date: req.Date}
	counts := make(map[string]int, len(models.AttendanceStatuses))
	records := make([]models.Attendance, 0, len(req.Entries))
	for _, entry := range req.Entries {
		status := entry.Status
		if status == "" {
			status = models.AttendancePresent
		}
		counts[status]++
		records = append(records, models.Attendance{
			TeacherID: teacherID,
			SubjectID: req.SubjectID,
			ClassID:   req.ClassID,
			Date:      req.Date,
			StudentID: entry.StudentID,
			Status:    status,
			Notes:     s.cleanNotes(entry.Notes),
		})
	}

	if err := s.repo.ReplaceSheet(ctx, key, records); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "replace_failed")
		s.logger.Error().Err(err).Uint("teacher_id", teacherID).Msg("failed to save attendance")
		return dto.AttendanceSheetResponse{}, err
	}
	span.SetAttributes(attribute.Int("attendance.rows", len(records)))
	observability.AttendanceSheetsSaved().Inc()

	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx, teacherID)
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.SubjectAttendanceSaved, events.AttendanceSaved{
			TeacherID: teacherID,
			SubjectID: req.SubjectID,
			ClassID:   req.ClassID,
			Date:      req.Date,
			Counts:    counts,
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish attendance event")
		}
	}
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    teacherID,
		ActorRole:  models.RoleTeacher,
		Action:     ActionAttendanceSaved,
		EntityType: models.EntityAttendance,
		Metadata: map[string]interface{}{
			"subject_id": req.SubjectID,
			"class_id":   req.ClassID,
			"date":       req.Date,
			"rows":       len(records),
		},
	})

	s.logger.Info().
		Uint("teacher_id", teacherID).
		Uint("class_id", req.ClassID).
		Str("date", req.Date).
		Int("rows", len(records)).
		Msg("attendance saved")

	stored, err := s.repo.ListSheet(ctx, key)
	if err != nil {
		return dto.AttendanceSheetResponse{}, err
	}
	return buildAttendanceSheet(key, students, stored), nil
}

func (s *attendanceService) History(ctx context.Context, teacherID uint, query dto.AttendanceHistoryQuery) (dto.AttendanceHistoryResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return dto.AttendanceHistoryResponse{}, err
	}
	if query.DateFrom != "" && query.DateTo != "" && query.DateFrom > query.DateTo {
		return dto.AttendanceHistoryResponse{}, ErrInvalidDateRange
	}

	records, total, err := s.repo.History(ctx, repository.AttendanceFilter{
		TeacherID: teacherID,
		SubjectID: query.SubjectID,
		ClassID:   query.ClassID,
		DateFrom:  query.DateFrom,
		DateTo:    query.DateTo,
		Page:      query.Page,
		PageSize:  query.PageSize,
	})
	if err != nil {
		return dto.AttendanceHistoryResponse{}, err
	}

	items := make([]dto.AttendanceHistoryItem, 0, len(records))
	for _, record := range records {
		items = append(items, dto.NewAttendanceHistoryItem(record))
	}

	return dto.AttendanceHistoryResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(query.Page, query.PageSize, total),
	}, nil
}

// buildAttendanceSheet merges the roster with stored rows. Students without a row default to present.
func buildAttendanceSheet(key models.AttendanceKey, students []models.Student, records []models.Attendance) dto.AttendanceSheetResponse {
	byStudent := make(map[uint]models.Attendance, len(records))
	for _, record := range records {
		byStudent[record.StudentID] = record
	}

	entries := make([]dto.AttendanceEntryResponse, 0, len(students))
	for _, student := range students {
		entry := dto.AttendanceEntryResponse{
			StudentID:     student.ID,
			StudentName:   student.Name,
			StudentNumber: student.StudentNumber,
			Status:        models.AttendancePresent,
		}
		if record, ok := byStudent[student.ID]; ok {
			entry.Status = record.Status
			entry.Notes = record.Notes
			entry.Recorded = true
		}
		entries = append(entries, entry)
	}

	return dto.AttendanceSheetResponse{
		SubjectID: key.SubjectID,
		ClassID:   key.ClassID,
		Date:      key.Date,
		Entries:   entries,
	}
}

// cleanNotes strips markup but keeps the note as typed. Encoders escape it on the way out.
func (s *attendanceService) cleanNotes(raw string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(raw)))
}
