package models

import "time"

// Attendance statuses, stored in Indonesian as entered by teachers.
const (
	AttendancePresent = "hadir"
	AttendanceAbsent  = "tidak_hadir"
	AttendanceExcused = "izin"
	AttendanceSick    = "sakit"
)

// AttendanceStatuses lists every accepted status in display order.
var AttendanceStatuses = []string{AttendancePresent, AttendanceAbsent, AttendanceExcused, AttendanceSick}

// AttendanceDateLayout is the storage format of Attendance.Date.
const AttendanceDateLayout = "2006-01-02"

// AttendanceKey identifies one attendance sheet.
type AttendanceKey struct {
	TeacherID uint
	SubjectID uint
	ClassID   uint
	Date      string
}

// Attendance records one student's presence in one lesson on one date.
type Attendance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeacherID uint      `gorm:"not null;index:idx_attendance_sheet" json:"teacher_id"`
	SubjectID uint      `gorm:"not null;index:idx_attendance_sheet" json:"subject_id"`
	ClassID   uint      `gorm:"not null;index:idx_attendance_sheet" json:"class_id"`
	Date      string    `gorm:"size:10;not null;index:idx_attendance_sheet" json:"date"`
	StudentID uint      `gorm:"not null" json:"student_id"`
	Status    string    `gorm:"size:16;not null" json:"status"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	Student   Student   `json:"student"`
	Subject   Subject   `json:"subject"`
	Class     Class     `json:"class"`
}
