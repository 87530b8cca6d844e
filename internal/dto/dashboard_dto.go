package dto

// DashboardResponse summarises the signed-in teacher's day.
type DashboardResponse struct {
	Teacher         string            `json:"teacher"`
	Subjects        []SubjectResponse `json:"subjects"`
	TotalStudents   int64             `json:"total_students"`
	TodayAttendance int64             `json:"today_attendance"`
	Date            string            `json:"date"`
}
