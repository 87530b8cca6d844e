package dto

import "github.com/noah-isme/siakad-go-api/internal/models"

// AttendanceSheetQuery selects one attendance sheet.
type AttendanceSheetQuery struct {
	SubjectID uint   `query:"subject_id" json:"subject_id" validate:"required"`
	ClassID   uint   `query:"class_id" json:"class_id" validate:"required"`
	Date      string `query:"date" json:"date" validate:"required,datetime=2006-01-02"`
}

// AttendanceEntryInput is one student's row in a submitted sheet.
type AttendanceEntryInput struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"omitempty,oneof=hadir tidak_hadir izin sakit"`
	Notes     string `json:"notes" validate:"max=500"`
}

// SaveAttendanceRequest replaces the attendance of a class for one subject and date.
type SaveAttendanceRequest struct {
	SubjectID uint                   `json:"subject_id" validate:"required"`
	ClassID   uint                   `json:"class_id" validate:"required"`
	Date      string                 `json:"date" validate:"required,datetime=2006-01-02"`
	Entries   []AttendanceEntryInput `json:"entries" validate:"required,min=1,dive"`
}

// AttendanceEntryResponse is one student's row in a sheet.
type AttendanceEntryResponse struct {
	StudentID     uint   `json:"student_id"`
	StudentName   string `json:"student_name"`
	StudentNumber string `json:"student_number"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
	Recorded      bool   `json:"recorded"`
}

// AttendanceSheetResponse lists the roster of a class with its attendance for the date.
type AttendanceSheetResponse struct {
	SubjectID uint                      `json:"subject_id"`
	ClassID   uint                      `json:"class_id"`
	Date      string                    `json:"date"`
	Entries   []AttendanceEntryResponse `json:"entries"`
}

// AttendanceHistoryQuery filters past attendance of the signed-in teacher.
type AttendanceHistoryQuery struct {
	SubjectID uint   `query:"subject_id"`
	ClassID   uint   `query:"class_id"`
	DateFrom  string `query:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo    string `query:"date_to" validate:"omitempty,datetime=2006-01-02"`
	Page      int    `query:"page" validate:"omitempty,min=1"`
	PageSize  int    `query:"page_size" validate:"omitempty,min=1,max=500"`
}

// AttendanceHistoryItem serializes a stored attendance row.
type AttendanceHistoryItem struct {
	ID            uint   `json:"id"`
	Date          string `json:"date"`
	StudentID     uint   `json:"student_id"`
	StudentName   string `json:"student_name"`
	StudentNumber string `json:"student_number"`
	SubjectName   string `json:"subject_name"`
	ClassName     string `json:"class_name"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
}

// AttendanceHistoryResponse wraps paginated attendance history.
type AttendanceHistoryResponse struct {
	Items      []AttendanceHistoryItem `json:"items"`
	Pagination PaginationMeta          `json:"pagination"`
}

// NewAttendanceHistoryItem converts a stored attendance row into a DTO.
func NewAttendanceHistoryItem(record models.Attendance) AttendanceHistoryItem {
	return AttendanceHistoryItem{
		ID:            record.ID,
		Date:          record.Date,
		StudentID:     record.StudentID,
		StudentName:   record.Student.Name,
		StudentNumber: record.Student.StudentNumber,
		SubjectName:   record.Subject.Name,
		ClassName:     record.Class.Name,
		Status:        record.Status,
		Notes:         record.Notes,
	}
}
