package dto

import (
	"bytes"
	"encoding/json"

	"github.com/noah-isme/siakad-go-api/internal/grading"
	"github.com/noah-isme/siakad-go-api/internal/models"
)

// GradeSheetQuery selects one grade sheet.
type GradeSheetQuery struct {
	SubjectID    uint   `query:"subject_id" json:"subject_id" validate:"required"`
	ClassID      uint   `query:"class_id" json:"class_id" validate:"required"`
	Semester     int    `query:"semester" json:"semester" validate:"required,oneof=1 2"`
	AcademicYear string `query:"academic_year" json:"academic_year" validate:"required,academic_year"`
}

// ScoreInput is a raw score cell. It accepts a JSON string, number or null; blank means not graded yet.
type ScoreInput string

// UnmarshalJSON keeps numbers in their literal form so that validation sees what was typed.
func (s *ScoreInput) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*s = ScoreInput(text)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return err
	}
	*s = ScoreInput(number.String())
	return nil
}

// KnowledgeEntryInput carries raw scores as typed by the teacher. Blank means not graded yet.
type KnowledgeEntryInput struct {
	StudentID uint       `json:"student_id" validate:"required"`
	UH1       ScoreInput `json:"uh1"`
	UH2       ScoreInput `json:"uh2"`
	UH3       ScoreInput `json:"uh3"`
	UTS       ScoreInput `json:"uts"`
	UAS       ScoreInput `json:"uas"`
}

// SaveKnowledgeSheetRequest replaces a knowledge grade sheet.
type SaveKnowledgeSheetRequest struct {
	SubjectID    uint                  `json:"subject_id" validate:"required"`
	ClassID      uint                  `json:"class_id" validate:"required"`
	Semester     int                   `json:"semester" validate:"required,oneof=1 2"`
	AcademicYear string                `json:"academic_year" validate:"required,academic_year"`
	Entries      []KnowledgeEntryInput `json:"entries" validate:"required,min=1,dive"`
}

// Sheet returns the key part of the request.
func (r SaveKnowledgeSheetRequest) Sheet() GradeSheetQuery {
	return GradeSheetQuery{SubjectID: r.SubjectID, ClassID: r.ClassID, Semester: r.Semester, AcademicYear: r.AcademicYear}
}

// PracticeEntryInput carries raw practice scores as typed by the teacher.
type PracticeEntryInput struct {
	StudentID uint       `json:"student_id" validate:"required"`
	Practice1 ScoreInput `json:"practice1"`
	Practice2 ScoreInput `json:"practice2"`
}

// SavePracticeSheetRequest replaces a practice grade sheet.
type SavePracticeSheetRequest struct {
	SubjectID    uint                 `json:"subject_id" validate:"required"`
	ClassID      uint                 `json:"class_id" validate:"required"`
	Semester     int                  `json:"semester" validate:"required,oneof=1 2"`
	AcademicYear string               `json:"academic_year" validate:"required,academic_year"`
	Entries      []PracticeEntryInput `json:"entries" validate:"required,min=1,dive"`
}

// Sheet returns the key part of the request.
func (r SavePracticeSheetRequest) Sheet() GradeSheetQuery {
	return GradeSheetQuery{SubjectID: r.SubjectID, ClassID: r.ClassID, Semester: r.Semester, AcademicYear: r.AcademicYear}
}

// GradeHistoryQuery filters stored grades of the signed-in teacher.
type GradeHistoryQuery struct {
	SubjectID    uint   `query:"subject_id"`
	ClassID      uint   `query:"class_id"`
	Semester     int    `query:"semester" validate:"omitempty,oneof=1 2"`
	AcademicYear string `query:"academic_year" validate:"omitempty,academic_year"`
	Page         int    `query:"page" validate:"omitempty,min=1"`
	PageSize     int    `query:"page_size" validate:"omitempty,min=1,max=500"`
}

// GradeSummary is the derived part of a grade row.
type GradeSummary struct {
	Average        *float64 `json:"average"`
	Predicate      *string  `json:"predicate"`
	PredicateColor string   `json:"predicate_color,omitempty"`
}

// KnowledgeGradeRow is one student's knowledge grades.
type KnowledgeGradeRow struct {
	StudentID     uint     `json:"student_id"`
	StudentName   string   `json:"student_name"`
	StudentNumber string   `json:"student_number"`
	UH1           *float64 `json:"uh1"`
	UH2           *float64 `json:"uh2"`
	UH3           *float64 `json:"uh3"`
	UTS           *float64 `json:"uts"`
	UAS           *float64 `json:"uas"`
	GradeSummary
}

// PracticeGradeRow is one student's practice grades.
type PracticeGradeRow struct {
	StudentID     uint     `json:"student_id"`
	StudentName   string   `json:"student_name"`
	StudentNumber string   `json:"student_number"`
	Practice1     *float64 `json:"practice1"`
	Practice2     *float64 `json:"practice2"`
	GradeSummary
}

// KnowledgeSheetResponse lists a class roster with its knowledge grades.
type KnowledgeSheetResponse struct {
	GradeSheetQuery
	Rows []KnowledgeGradeRow `json:"rows"`
}

// PracticeSheetResponse lists a class roster with its practice grades.
type PracticeSheetResponse struct {
	GradeSheetQuery
	Rows []PracticeGradeRow `json:"rows"`
}

// GradeHistoryContext names the sheet a history row belongs to.
type GradeHistoryContext struct {
	ID           uint   `json:"id"`
	SubjectName  string `json:"subject_name"`
	ClassName    string `json:"class_name"`
	Semester     int    `json:"semester"`
	AcademicYear string `json:"academic_year"`
}

// KnowledgeHistoryItem is a stored knowledge grade row with its sheet context.
type KnowledgeHistoryItem struct {
	GradeHistoryContext
	KnowledgeGradeRow
}

// PracticeHistoryItem is a stored practice grade row with its sheet context.
type PracticeHistoryItem struct {
	GradeHistoryContext
	PracticeGradeRow
}

// KnowledgeHistoryResponse wraps paginated knowledge grade history.
type KnowledgeHistoryResponse struct {
	Items      []KnowledgeHistoryItem `json:"items"`
	Pagination PaginationMeta         `json:"pagination"`
}

// PracticeHistoryResponse wraps paginated practice grade history.
type PracticeHistoryResponse struct {
	Items      []PracticeHistoryItem `json:"items"`
	Pagination PaginationMeta        `json:"pagination"`
}

// NewGradeSummary builds the derived fields from stored values.
func NewGradeSummary(average *float64, predicate *string) GradeSummary {
	summary := GradeSummary{Average: average, Predicate: predicate}
	if predicate != nil {
		summary.PredicateColor = grading.Predicate(*predicate).Color()
	}
	return summary
}

// NewKnowledgeGradeRow converts a stored knowledge grade into a row.
func NewKnowledgeGradeRow(grade models.KnowledgeGrade) KnowledgeGradeRow {
	return KnowledgeGradeRow{
		StudentID:     grade.StudentID,
		StudentName:   grade.Student.Name,
		StudentNumber: grade.Student.StudentNumber,
		UH1:           grade.UH1,
		UH2:           grade.UH2,
		UH3:           grade.UH3,
		UTS:           grade.UTS,
		UAS:           grade.UAS,
		GradeSummary:  NewGradeSummary(grade.Average, grade.Predicate),
	}
}

// NewPracticeGradeRow converts a stored practice grade into a row.
func NewPracticeGradeRow(grade models.PracticeGrade) PracticeGradeRow {
	return PracticeGradeRow{
		StudentID:     grade.StudentID,
		StudentName:   grade.Student.Name,
		StudentNumber: grade.Student.StudentNumber,
		Practice1:     grade.Practice1,
		Practice2:     grade.Practice2,
		GradeSummary:  NewGradeSummary(grade.Average, grade.Predicate),
	}
}

// NewKnowledgeHistoryItem converts a stored knowledge grade into a history item.
func NewKnowledgeHistoryItem(grade models.KnowledgeGrade) KnowledgeHistoryItem {
	return KnowledgeHistoryItem{
		GradeHistoryContext: GradeHistoryContext{
			ID:           grade.ID,
			SubjectName:  grade.Subject.Name,
			ClassName:    grade.Class.Name,
			Semester:     grade.Semester,
			AcademicYear: grade.AcademicYear,
		},
		KnowledgeGradeRow: NewKnowledgeGradeRow(grade),
	}
}

// NewPracticeHistoryItem converts a stored practice grade into a history item.
func NewPracticeHistoryItem(grade models.PracticeGrade) PracticeHistoryItem {
	return PracticeHistoryItem{
		GradeHistoryContext: GradeHistoryContext{
			ID:           grade.ID,
			SubjectName:  grade.Subject.Name,
			ClassName:    grade.Class.Name,
			Semester:     grade.Semester,
			AcademicYear: grade.AcademicYear,
		},
		PracticeGradeRow: NewPracticeGradeRow(grade),
	}
}
