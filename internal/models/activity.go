package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is an audit entry written after a teacher changes data or exports a report.
// Teachers only ever read their own entries, newest first.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    uint              `gorm:"not null;index:idx_activity_actor_created,priority:1" json:"actor_id"`
	ActorRole  string            `gorm:"size:32;not null" json:"actor_role"`
	Action     string            `gorm:"size:64;not null;index" json:"action"`
	EntityType string            `gorm:"size:64;not null" json:"entity_type"`
	EntityID   *uint             `json:"entity_id"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `gorm:"index:idx_activity_actor_created,priority:2,sort:desc" json:"created_at"`
}

// Entity types recorded on activity entries.
const (
	EntityAttendance = "attendance"
	EntityGradeSheet = "grade_sheet"
	EntityReport     = "report"
	EntityTeacher    = "teacher"
)
