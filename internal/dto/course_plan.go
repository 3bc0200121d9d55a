package dto

// CreateCoursePlanRequest creates a plan, optionally seeded with subjects from an
// edited template.
type CreateCoursePlanRequest struct {
	Name             string   `json:"name" validate:"required,max=200"`
	Branch           string   `json:"branch" validate:"required,max=80"`
	Semester         int      `json:"semester" validate:"required,min=1,max=12"`
	AcademicYear     string   `json:"academic_year" validate:"omitempty,max=20"`
	Status           string   `json:"status" validate:"omitempty,oneof=ACTIVE DRAFT ARCHIVED"`
	EnrolledStudents int      `json:"enrolled_students" validate:"omitempty,min=0"`
	SubjectIDs       []string `json:"subject_ids" validate:"omitempty,dive,required"`
}

// UpdateCoursePlanRequest patches plan metadata. Changing branch or semester clears
// the subject set.
type UpdateCoursePlanRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=200"`
	Branch           *string `json:"branch" validate:"omitempty,min=1,max=80"`
	Semester         *int    `json:"semester" validate:"omitempty,min=1,max=12"`
	AcademicYear     *string `json:"academic_year" validate:"omitempty,max=20"`
	Status           *string `json:"status" validate:"omitempty,oneof=ACTIVE DRAFT ARCHIVED"`
	EnrolledStudents *int    `json:"enrolled_students" validate:"omitempty,min=0"`
}

// AddPlanSubjectRequest adds one subject to a plan.
type AddPlanSubjectRequest struct {
	SubjectID string `json:"subject_id" validate:"required"`
}

// BulkAddPlanSubjectsRequest adds every catalog subject matching the plan's branch
// and semester plus the optional filters.
type BulkAddPlanSubjectsRequest struct {
	Type   string `json:"type" validate:"omitempty,oneof=CORE ELECTIVE GENERAL"`
	Search string `json:"search" validate:"omitempty,max=100"`
}

// BulkAddResult reports how many subjects were actually added.
type BulkAddResult struct {
	Added int `json:"added"`
}
