package models

// All returns every model that needs a table, in dependency order.
func All() []interface{} {
	return []interface{}{
		&Subject{},
		&Class{},
		&Teacher{},
		&Student{},
		&Attendance{},
		&KnowledgeGrade{},
		&PracticeGrade{},
		&ActivityLog{},
	}
}
