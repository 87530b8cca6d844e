package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/models"
	"github.com/noah-isme/siakad-go-api/internal/observability"
	"github.com/noah-isme/siakad-go-api/internal/report"
	"github.com/noah-isme/siakad-go-api/internal/repository"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

// ErrNoReportData indicates the selection matched no rows to export.
var ErrNoReportData = errors.New("no data available for the selected report")

// Report kinds.
const (
	ReportKindAttendance = "attendance"
	ReportKindKnowledge  = "knowledge"
	ReportKindPractice   = "practice"
)

// ReportFile is a rendered download.
type ReportFile struct {
	Filename    string
	ContentType string
	Content     []byte
	Rows        int
}

// ReportService exports attendance and grade sheets.
type ReportService interface {
	Attendance(ctx context.Context, teacherID uint, req dto.AttendanceReportRequest) (ReportFile, error)
	Knowledge(ctx context.Context, teacherID uint, req dto.GradeReportRequest) (ReportFile, error)
	Practice(ctx context.Context, teacherID uint, req dto.GradeReportRequest) (ReportFile, error)
}

type reportService struct {
	teachers   repository.TeacherRepository
	reference  repository.ReferenceRepository
	attendance repository.AttendanceRepository
	grades     repository.GradeRepository
	activity   ActivityRecorder
	validator  *validation.Validator
	tracer     trace.Tracer
	logger     zerolog.Logger
	now        func() time.Time
}

// NewReportService constructs the export service.
func NewReportService(teachers repository.TeacherRepository, reference repository.ReferenceRepository, attendance repository.AttendanceRepository, grades repository.GradeRepository, activity ActivityRecorder, validator *validation.Validator, logger zerolog.Logger) ReportService {
	return &reportService{
		teachers:   teachers,
		reference:  reference,
		attendance: attendance,
		grades:     grades,
		activity:   activity,
		validator:  validator,
		tracer:     otel.Tracer("github.com/noah-isme/siakad-go-api/internal/service/reports"),
		logger:     logger.With().Str("component", "report_service").Logger(),
		now:        time.Now,
	}
}

func (s *reportService) Attendance(ctx context.Context, teacherID uint, req dto.AttendanceReportRequest) (ReportFile, error) {
	ctx, span := s.start(ctx, ReportKindAttendance, req.Format)
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return ReportFile{}, fail(span, err, "validation_failed")
	}
	if req.DateFrom != "" && req.DateTo != "" && req.DateFrom > req.DateTo {
		return ReportFile{}, fail(span, ErrInvalidDateRange, "validation_failed")
	}

	names, err := s.names(ctx, teacherID, req.SubjectID, req.ClassID)
	if err != nil {
		return ReportFile{}, fail(span, err, "scope_failed")
	}

	records, _, err := s.attendance.History(ctx, repository.AttendanceFilter{
		TeacherID: teacherID,
		SubjectID: req.SubjectID,
		ClassID:   req.ClassID,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
	})
	if err != nil {
		return ReportFile{}, fail(span, err, "query_failed")
	}

	return s.render(ctx, span, teacherID, ReportKindAttendance, report.PrefixAttendance, req.Format, report.Attendance(records, names))
}

func (s *reportService) Knowledge(ctx context.Context, teacherID uint, req dto.GradeReportRequest) (ReportFile, error) {
	ctx, span := s.start(ctx, ReportKindKnowledge, req.Format)
	defer span.End()

	key, names, err := s.gradeScope(ctx, teacherID, req)
	if err != nil {
		return ReportFile{}, fail(span, err, "scope_failed")
	}

	grades, err := s.grades.ListKnowledge(ctx, key)
	if err != nil {
		return ReportFile{}, fail(span, err, "query_failed")
	}

	return s.render(ctx, span, teacherID, ReportKindKnowledge, report.PrefixKnowledge, req.Format, report.Knowledge(grades, names))
}

func (s *reportService) Practice(ctx context.Context, teacherID uint, req dto.GradeReportRequest) (ReportFile, error) {
	ctx, span := s.start(ctx, ReportKindPractice, req.Format)
	defer span.End()

	key, names, err := s.gradeScope(ctx, teacherID, req)
	if err != nil {
		return ReportFile{}, fail(span, err, "scope_failed")
	}

	grades, err := s.grades.ListPractice(ctx, key)
	if err != nil {
		return ReportFile{}, fail(span, err, "query_failed")
	}

	return s.render(ctx, span, teacherID, ReportKindPractice, report.PrefixPractice, req.Format, report.Practice(grades, names))
}

func (s *reportService) start(ctx context.Context, kind, format string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "reports.export")
	span.SetAttributes(
		attribute.String("reports.kind", kind),
		attribute.String("reports.format", reportFormat(format)),
	)
	return ctx, span
}

func (s *reportService) gradeScope(ctx context.Context, teacherID uint, req dto.GradeReportRequest) (models.GradeKey, report.Names, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.GradeKey{}, report.Names{}, err
	}

	names, err := s.names(ctx, teacherID, req.SubjectID, req.ClassID)
	if err != nil {
		return models.GradeKey{}, report.Names{}, err
	}

	key := models.GradeKey{
		TeacherID:    teacherID,
		SubjectID:    req.SubjectID,
		ClassID:      req.ClassID,
		Semester:     req.Semester,
		AcademicYear: strings.TrimSpace(req.AcademicYear),
	}
	return key, names, nil
}

// names checks the subject assignment and resolves the labels printed in each row.
func (s *reportService) names(ctx context.Context, teacherID, subjectID, classID uint) (report.Names, error) {
	teaches, err := s.teachers.TeachesSubject(ctx, teacherID, subjectID)
	if err != nil {
		return report.Names{}, err
	}
	if !teaches {
		return report.Names{}, ErrSubjectNotAssigned
	}

	subject, err := s.reference.GetSubject(ctx, subjectID)
	if err != nil {
		return report.Names{}, err
	}

	class, err := s.reference.GetClass(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return report.Names{}, ErrClassNotFound
		}
		return report.Names{}, err
	}

	return report.Names{Subject: subject.Name, Class: class.Name}, nil
}

func (s *reportService) render(ctx context.Context, span trace.Span, teacherID uint, kind, prefix, format string, table report.Table) (ReportFile, error) {
	if len(table.Rows) == 0 {
		return ReportFile{}, fail(span, ErrNoReportData, "no_data")
	}

	format = reportFormat(format)
	var buf bytes.Buffer
	contentType, err := report.Write(&buf, format, table)
	if err != nil {
		return ReportFile{}, fail(span, err, "render_failed")
	}

	span.SetAttributes(attribute.Int("reports.rows", len(table.Rows)))
	observability.ReportsExported().WithLabelValues(kind, format).Inc()
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    teacherID,
		ActorRole:  models.RoleTeacher,
		Action:     ActionReportExported,
		EntityType: models.EntityReport,
		Metadata:   map[string]interface{}{"kind": kind, "format": format, "rows": len(table.Rows)},
	})

	return ReportFile{
		Filename:    report.Filename(prefix, s.now(), format),
		ContentType: contentType,
		Content:     buf.Bytes(),
		Rows:        len(table.Rows),
	}, nil
}

func reportFormat(format string) string {
	if format == "" {
		return report.FormatCSV
	}
	return format
}

func fail(span trace.Span, err error, status string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, status)
	return err
}
