package dto

// SeedSubject describes a subject to upsert by code.
type SeedSubject struct {
	Code string `json:"code" validate:"required,notblank,max=32"`
	Name string `json:"name" validate:"required,notblank"`
}

// SeedClass describes a class to upsert by name.
type SeedClass struct {
	Name       string `json:"name" validate:"required,notblank,max=64"`
	GradeLevel int    `json:"grade_level" validate:"required,min=1,max=13"`
}

// SeedStudent describes a student to upsert by student number.
type SeedStudent struct {
	Name          string `json:"name" validate:"required,notblank"`
	StudentNumber string `json:"student_number" validate:"required,notblank,max=64"`
	ClassName     string `json:"class_name" validate:"required,notblank"`
}

// SeedReferenceRequest loads reference data in one call.
type SeedReferenceRequest struct {
	Subjects []SeedSubject `json:"subjects" validate:"dive"`
	Classes  []SeedClass   `json:"classes" validate:"dive"`
	Students []SeedStudent `json:"students" validate:"dive"`
}

// SeedReferenceResponse reports how many rows each upsert touched.
type SeedReferenceResponse struct {
	Subjects int64 `json:"subjects"`
	Classes  int64 `json:"classes"`
	Students int64 `json:"students"`
}
