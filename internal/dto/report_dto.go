package dto

// Report formats.
const (
	ReportFormatCSV  = "csv"
	ReportFormatXLSX = "xlsx"
)

// AttendanceReportRequest selects attendance rows for export.
type AttendanceReportRequest struct {
	SubjectID uint   `query:"subject_id" validate:"required"`
	ClassID   uint   `query:"class_id" validate:"required"`
	DateFrom  string `query:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo    string `query:"date_to" validate:"omitempty,datetime=2006-01-02"`
	Format    string `query:"format" validate:"omitempty,oneof=csv xlsx"`
}

// GradeReportRequest selects a grade sheet for export.
type GradeReportRequest struct {
	SubjectID    uint   `query:"subject_id" validate:"required"`
	ClassID      uint   `query:"class_id" validate:"required"`
	Semester     int    `query:"semester" validate:"required,oneof=1 2"`
	AcademicYear string `query:"academic_year" validate:"required,academic_year"`
	Format       string `query:"format" validate:"omitempty,oneof=csv xlsx"`
}
