package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/events"
	"github.com/noah-isme/siakad-go-api/internal/grading"
	"github.com/noah-isme/siakad-go-api/internal/models"
	"github.com/noah-isme/siakad-go-api/internal/observability"
	"github.com/noah-isme/siakad-go-api/internal/repository"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

// Grade sheet kinds.
const (
	GradeKindKnowledge = "knowledge"
	GradeKindPractice  = "practice"
)

// ScoreError lists every rejected score cell of a submitted sheet.
type ScoreError struct {
	Fields map[string]string
}

func (e *ScoreError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return fmt.Sprintf("invalid scores: %s", strings.Join(keys, ", "))
}

func (e *ScoreError) Unwrap() error {
	return grading.ErrInvalidScore
}

// GradeService manages knowledge and practice grade sheets.
type GradeService interface {
	KnowledgeSheet(ctx context.Context, teacherID uint, query dto.GradeSheetQuery) (dto.KnowledgeSheetResponse, error)
	SaveKnowledge(ctx context.Context, teacherID uint, req dto.SaveKnowledgeSheetRequest) (dto.KnowledgeSheetResponse, error)
	KnowledgeHistory(ctx context.Context, teacherID uint, query dto.GradeHistoryQuery) (dto.KnowledgeHistoryResponse, error)
	PracticeSheet(ctx context.Context, teacherID uint, query dto.GradeSheetQuery) (dto.PracticeSheetResponse, error)
	SavePractice(ctx context.Context, teacherID uint, req dto.SavePracticeSheetRequest) (dto.PracticeSheetResponse, error)
	PracticeHistory(ctx context.Context, teacherID uint, query dto.GradeHistoryQuery) (dto.PracticeHistoryResponse, error)
}

type gradeService struct {
	roster    StudentService
	repo      repository.GradeRepository
	scale     grading.Scale
	publisher events.Publisher
	activity  ActivityRecorder
	validator *validation.Validator
	tracer    trace.Tracer
	logger    zerolog.Logger
}

// NewGradeService constructs the grade service. publisher and activity may be nil.
func NewGradeService(roster StudentService, repo repository.GradeRepository, scale grading.Scale, publisher events.Publisher, activity ActivityRecorder, validator *validation.Validator, logger zerolog.Logger) GradeService {
	return &gradeService{
		roster:    roster,
		repo:      repo,
		scale:     scale,
		publisher: publisher,
		activity:  activity,
		validator: validator,
		tracer:    otel.Tracer("github.com/noah-isme/siakad-go-api/internal/service/grades"),
		logger:    logger.With().Str("component", "grade_service").Logger(),
	}
}

func gradeKey(teacherID uint, query dto.GradeSheetQuery) models.GradeKey {
	return models.GradeKey{
		TeacherID:    teacherID,
		SubjectID:    query.SubjectID,
		ClassID:      query.ClassID,
		Semester:     query.Semester,
		AcademicYear: strings.TrimSpace(query.AcademicYear),
	}
}

func (s *gradeService) KnowledgeSheet(ctx context.Context, teacherID uint, query dto.GradeSheetQuery) (dto.KnowledgeSheetResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return dto.KnowledgeSheetResponse{}, err
	}

	students, err := s.roster.Roster(ctx, teacherID, query.SubjectID, query.ClassID)
	if err != nil {
		return dto.KnowledgeSheetResponse{}, err
	}

	return s.knowledgeSheet(ctx, gradeKey(teacherID, query), query, students)
}

func (s *gradeService) knowledgeSheet(ctx context.Context, key models.GradeKey, query dto.GradeSheetQuery, students []models.Student) (dto.KnowledgeSheetResponse, error) {
	stored, err := s.repo.ListKnowledge(ctx, key)
	if err != nil {
		return dto.KnowledgeSheetResponse{}, err
	}

	byStudent := make(map[uint]models.KnowledgeGrade, len(stored))
	for _, grade := range stored {
		byStudent[grade.StudentID] = grade
	}

	rows := make([]dto.KnowledgeGradeRow, 0, len(students))
	for _, student := range students {
		grade, ok := byStudent[student.ID]
		if !ok {
			grade = models.KnowledgeGrade{StudentID: student.ID}
		}
		grade.Student = student
		rows = append(rows, dto.NewKnowledgeGradeRow(grade))
	}

	return dto.KnowledgeSheetResponse{GradeSheetQuery: query, Rows: rows}, nil
}

func (s *gradeService) SaveKnowledge(ctx context.Context, teacherID uint, req dto.SaveKnowledgeSheetRequest) (dto.KnowledgeSheetResponse, error) {
	query := req.Sheet()
	ctx, span := s.startSave(ctx, GradeKindKnowledge, teacherID, query)
	defer span.End()

	students, err := s.prepareSave(ctx, span, teacherID, req, query, knowledgeStudentIDs(req.Entries))
	if err != nil {
		return dto.KnowledgeSheetResponse{}, err
	}

	key := gradeKey(teacherID, query)
	scores := newScoreParser()
	grades := make([]models.KnowledgeGrade, 0, len(req.Entries))
	for i, entry := range req.Entries {
		field := func(name string) string { return fmt.Sprintf("entries[%d].%s", i, name) }
		grade := models.KnowledgeGrade{
			TeacherID:    key.TeacherID,
			SubjectID:    key.SubjectID,
			ClassID:      key.ClassID,
			Semester:     key.Semester,
			AcademicYear: key.AcademicYear,
			StudentID:    entry.StudentID,
			UH1:          scores.parse(field("uh1"), entry.UH1),
			UH2:          scores.parse(field("uh2"), entry.UH2),
			UH3:          scores.parse(field("uh3"), entry.UH3),
			UTS:          scores.parse(field("uts"), entry.UTS),
			UAS:          scores.parse(field("uas"), entry.UAS),
		}
		result := s.scale.Aggregate(grade.Scores()...)
		if result.Average == nil {
			continue
		}
		grade.Average = result.Average
		grade.Predicate = predicateString(result.Predicate)
		grades = append(grades, grade)
	}
	if err := scores.err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid_scores")
		return dto.KnowledgeSheetResponse{}, err
	}

	if err := s.repo.ReplaceKnowledge(ctx, key, grades); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "replace_failed")
		s.logger.Error().Err(err).Uint("teacher_id", teacherID).Msg("failed to save knowledge grades")
		return dto.KnowledgeSheetResponse{}, err
	}

	predicates := make([]*string, 0, len(grades))
	for _, grade := range grades {
		predicates = append(predicates, grade.Predicate)
	}
	s.afterSave(ctx, span, GradeKindKnowledge, ActionKnowledgeGradeSaved, key, predicates)

	return s.knowledgeSheet(ctx, key, query, students)
}

func (s *gradeService) KnowledgeHistory(ctx context.Context, teacherID uint, query dto.GradeHistoryQuery) (dto.KnowledgeHistoryResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return dto.KnowledgeHistoryResponse{}, err
	}

	grades, total, err := s.repo.KnowledgeHistory(ctx, gradeFilter(teacherID, query))
	if err != nil {
		return dto.KnowledgeHistoryResponse{}, err
	}

	items := make([]dto.KnowledgeHistoryItem, 0, len(grades))
	for _, grade := range grades {
		items = append(items, dto.NewKnowledgeHistoryItem(grade))
	}

	return dto.KnowledgeHistoryResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(query.Page, query.PageSize, total),
	}, nil
}

func (s *gradeService) PracticeSheet(ctx context.Context, teacherID uint, query dto.GradeSheetQuery) (dto.PracticeSheetResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return dto.PracticeSheetResponse{}, err
	}

	students, err := s.roster.Roster(ctx, teacherID, query.SubjectID, query.ClassID)
	if err != nil {
		return dto.PracticeSheetResponse{}, err
	}

	return s.practiceSheet(ctx, gradeKey(teacherID, query), query, students)
}

func (s *gradeService) practiceSheet(ctx context.Context, key models.GradeKey, query dto.GradeSheetQuery, students []models.Student) (dto.PracticeSheetResponse, error) {
	stored, err := s.repo.ListPractice(ctx, key)
	if err != nil {
		return dto.PracticeSheetResponse{}, err
	}

	byStudent := make(map[uint]models.PracticeGrade, len(stored))
	for _, grade := range stored {
		byStudent[grade.StudentID] = grade
	}

	rows := make([]dto.PracticeGradeRow, 0, len(students))
	for _, student := range students {
		grade, ok := byStudent[student.ID]
		if !ok {
			grade = models.PracticeGrade{StudentID: student.ID}
		}
		grade.Student = student
		rows = append(rows, dto.NewPracticeGradeRow(grade))
	}

	return dto.PracticeSheetResponse{GradeSheetQuery: query, Rows: rows}, nil
}

func (s *gradeService) SavePractice(ctx context.Context, teacherID uint, req dto.SavePracticeSheetRequest) (dto.PracticeSheetResponse, error) {
	query := req.Sheet()
	ctx, span := s.startSave(ctx, GradeKindPractice, teacherID, query)
	defer span.End()

	students, err := s.prepareSave(ctx, span, teacherID, req, query, practiceStudentIDs(req.Entries))
	if err != nil {
		return dto.PracticeSheetResponse{}, err
	}

	key := gradeKey(teacherID, query)
	scores := newScoreParser()
	grades := make([]models.PracticeGrade, 0, len(req.Entries))
	for i, entry := range req.Entries {
		grade := models.PracticeGrade{
			TeacherID:    key.TeacherID,
			SubjectID:    key.SubjectID,
			ClassID:      key.ClassID,
			Semester:     key.Semester,
			AcademicYear: key.AcademicYear,
			StudentID:    entry.StudentID,
			Practice1:    scores.parse(fmt.Sprintf("entries[%d].practice1", i), entry.Practice1),
			Practice2:    scores.parse(fmt.Sprintf("entries[%d].practice2", i), entry.Practice2),
		}
		result := s.scale.Aggregate(grade.Scores()...)
		if result.Average == nil {
			continue
		}
		grade.Average = result.Average
		grade.Predicate = predicateString(result.Predicate)
		grades = append(grades, grade)
	}
	if err := scores.err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid_scores")
		return dto.PracticeSheetResponse{}, err
	}

	if err := s.repo.ReplacePractice(ctx, key, grades); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "replace_failed")
		s.logger.Error().Err(err).Uint("teacher_id", teacherID).Msg("failed to save practice grades")
		return dto.PracticeSheetResponse{}, err
	}

	predicates := make([]*string, 0, len(grades))
	for _, grade := range grades {
		predicates = append(predicates, grade.Predicate)
	}
	s.afterSave(ctx, span, GradeKindPractice, ActionPracticeGradeSaved, key, predicates)

	return s.practiceSheet(ctx, key, query, students)
}

func (s *gradeService) PracticeHistory(ctx context.Context, teacherID uint, query dto.GradeHistoryQuery) (dto.PracticeHistoryResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return dto.PracticeHistoryResponse{}, err
	}

	grades, total, err := s.repo.PracticeHistory(ctx, gradeFilter(teacherID, query))
	if err != nil {
		return dto.PracticeHistoryResponse{}, err
	}

	items := make([]dto.PracticeHistoryItem, 0, len(grades))
	for _, grade := range grades {
		items = append(items, dto.NewPracticeHistoryItem(grade))
	}

	return dto.PracticeHistoryResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(query.Page, query.PageSize, total),
	}, nil
}

func (s *gradeService) startSave(ctx context.Context, kind string, teacherID uint, query dto.GradeSheetQuery) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "grades.save")
	span.SetAttributes(
		attribute.String("grades.kind", kind),
		attribute.Int("grades.teacher_id", int(teacherID)),
		attribute.Int("grades.subject_id", int(query.SubjectID)),
		attribute.Int("grades.class_id", int(query.ClassID)),
		attribute.Int("grades.semester", query.Semester),
		attribute.String("grades.academic_year", query.AcademicYear),
	)
	return ctx, span
}

// prepareSave validates the request and checks every entry against the class roster.
func (s *gradeService) prepareSave(ctx context.Context, span trace.Span, teacherID uint, req interface{}, query dto.GradeSheetQuery, studentIDs []uint) ([]models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return nil, err
	}

	students, err := s.roster.Roster(ctx, teacherID, query.SubjectID, query.ClassID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "roster_failed")
		return nil, err
	}

	if err := checkEntries(indexRoster(students), studentIDs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid_entries")
		return nil, err
	}
	return students, nil
}

func (s *gradeService) afterSave(ctx context.Context, span trace.Span, kind, action string, key models.GradeKey, predicates []*string) {
	span.SetAttributes(attribute.Int("grades.rows", len(predicates)))
	observability.GradeSheetsSaved().WithLabelValues(kind).Inc()
	for _, predicate := range predicates {
		if predicate != nil {
			observability.GradeRowsSaved().WithLabelValues(kind, *predicate).Inc()
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.SubjectGradesSaved, events.GradesSaved{
			Kind:         kind,
			TeacherID:    key.TeacherID,
			SubjectID:    key.SubjectID,
			ClassID:      key.ClassID,
			Semester:     key.Semester,
			AcademicYear: key.AcademicYear,
			Rows:         len(predicates),
		}); err != nil {
			s.logger.Warn().Err(err).Str("kind", kind).Msg("failed to publish grades event")
		}
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    key.TeacherID,
		ActorRole:  models.RoleTeacher,
		Action:     action,
		EntityType: models.EntityGradeSheet,
		Metadata: map[string]interface{}{
			"subject_id":    key.SubjectID,
			"class_id":      key.ClassID,
			"semester":      key.Semester,
			"academic_year": key.AcademicYear,
			"rows":          len(predicates),
		},
	})

	s.logger.Info().
		Str("kind", kind).
		Uint("teacher_id", key.TeacherID).
		Uint("class_id", key.ClassID).
		Int("rows", len(predicates)).
		Msg("grade sheet saved")
}

func knowledgeStudentIDs(entries []dto.KnowledgeEntryInput) []uint {
	ids := make([]uint, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.StudentID)
	}
	return ids
}

func practiceStudentIDs(entries []dto.PracticeEntryInput) []uint {
	ids := make([]uint, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.StudentID)
	}
	return ids
}

func gradeFilter(teacherID uint, query dto.GradeHistoryQuery) repository.GradeFilter {
	return repository.GradeFilter{
		TeacherID:    teacherID,
		SubjectID:    query.SubjectID,
		ClassID:      query.ClassID,
		Semester:     query.Semester,
		AcademicYear: strings.TrimSpace(query.AcademicYear),
		Page:         query.Page,
		PageSize:     query.PageSize,
	}
}

func predicateString(p *grading.Predicate) *string {
	if p == nil {
		return nil
	}
	value := string(*p)
	return &value
}

// scoreParser collects every invalid cell instead of stopping at the first.
type scoreParser struct {
	fields map[string]string
}

func newScoreParser() *scoreParser {
	return &scoreParser{fields: map[string]string{}}
}

func (p *scoreParser) parse(field string, raw dto.ScoreInput) *float64 {
	value, err := grading.ValidateScoreInput(string(raw))
	if err != nil {
		p.fields[field] = err.Error()
		return nil
	}
	return value
}

func (p *scoreParser) err() error {
	if len(p.fields) == 0 {
		return nil
	}
	return &ScoreError{Fields: p.fields}
}
