package models

import "time"

// GradeKey identifies one grade sheet. Saving a sheet replaces every row under its key.
type GradeKey struct {
	TeacherID    uint
	SubjectID    uint
	ClassID      uint
	Semester     int
	AcademicYear string
}

// KnowledgeGrade stores quiz and exam scores plus the derived average and predicate.
type KnowledgeGrade struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TeacherID    uint      `gorm:"not null;index:idx_knowledge_sheet" json:"teacher_id"`
	SubjectID    uint      `gorm:"not null;index:idx_knowledge_sheet" json:"subject_id"`
	ClassID      uint      `gorm:"not null;index:idx_knowledge_sheet" json:"class_id"`
	Semester     int       `gorm:"not null;index:idx_knowledge_sheet" json:"semester"`
	AcademicYear string    `gorm:"size:9;not null;index:idx_knowledge_sheet" json:"academic_year"`
	StudentID    uint      `gorm:"not null" json:"student_id"`
	UH1          *float64  `gorm:"column:uh1" json:"uh1"`
	UH2          *float64  `gorm:"column:uh2" json:"uh2"`
	UH3          *float64  `gorm:"column:uh3" json:"uh3"`
	UTS          *float64  `gorm:"column:uts" json:"uts"`
	UAS          *float64  `gorm:"column:uas" json:"uas"`
	Average      *float64  `json:"average"`
	Predicate    *string   `gorm:"size:1" json:"predicate"`
	CreatedAt    time.Time `json:"created_at"`
	Student      Student   `json:"student"`
	Subject      Subject   `json:"subject"`
	Class        Class     `json:"class"`
}

// Scores returns the subscores in sheet order.
func (g KnowledgeGrade) Scores() []*float64 {
	return []*float64{g.UH1, g.UH2, g.UH3, g.UTS, g.UAS}
}

// PracticeGrade stores practical assessment scores plus the derived average and predicate.
type PracticeGrade struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TeacherID    uint      `gorm:"not null;index:idx_practice_sheet" json:"teacher_id"`
	SubjectID    uint      `gorm:"not null;index:idx_practice_sheet" json:"subject_id"`
	ClassID      uint      `gorm:"not null;index:idx_practice_sheet" json:"class_id"`
	Semester     int       `gorm:"not null;index:idx_practice_sheet" json:"semester"`
	AcademicYear string    `gorm:"size:9;not null;index:idx_practice_sheet" json:"academic_year"`
	StudentID    uint      `gorm:"not null" json:"student_id"`
	Practice1    *float64  `gorm:"column:practice1" json:"practice1"`
	Practice2    *float64  `gorm:"column:practice2" json:"practice2"`
	Average      *float64  `json:"average"`
	Predicate    *string   `gorm:"size:1" json:"predicate"`
	CreatedAt    time.Time `json:"created_at"`
	Student      Student   `json:"student"`
	Subject      Subject   `json:"subject"`
	Class        Class     `json:"class"`
}

// Scores returns the subscores in sheet order.
func (g PracticeGrade) Scores() []*float64 {
	return []*float64{g.Practice1, g.Practice2}
}
