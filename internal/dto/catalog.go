package dto

// CreateTeacherRequest registers a teacher in the portal.
type CreateTeacherRequest struct {
	FullName    string  `json:"full_name" validate:"required,max=200"`
	Email       string  `json:"email" validate:"required,email"`
	EmployeeID  *string `json:"employee_id" validate:"omitempty,max=50"`
	Department  string  `json:"department" validate:"required,max=120"`
	Designation *string `json:"designation" validate:"omitempty,max=120"`
	MaxSubjects int     `json:"max_subjects" validate:"required,min=1,max=20"`
}

// UpdateTeacherRequest patches teacher profile and capacity.
type UpdateTeacherRequest struct {
	FullName    *string `json:"full_name" validate:"omitempty,max=200"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Department  *string `json:"department" validate:"omitempty,max=120"`
	Designation *string `json:"designation" validate:"omitempty,max=120"`
	MaxSubjects *int    `json:"max_subjects" validate:"omitempty,min=1,max=20"`
}

// SetTeacherStatusRequest toggles a teacher between ACTIVE and INACTIVE.
type SetTeacherStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

// CreateSubjectRequest adds a subject to the catalog.
type CreateSubjectRequest struct {
	Code          string   `json:"code" validate:"required,max=20"`
	Name          string   `json:"name" validate:"required,max=200"`
	Branch        string   `json:"branch" validate:"required,max=80"`
	Semester      int      `json:"semester" validate:"required,min=1,max=12"`
	Credits       int      `json:"credits" validate:"required,min=1,max=12"`
	Type          string   `json:"type" validate:"required,oneof=CORE ELECTIVE GENERAL"`
	Status        string   `json:"status" validate:"omitempty,oneof=ACTIVE DRAFT INACTIVE"`
	Description   *string  `json:"description" validate:"omitempty,max=2000"`
	Prerequisites []string `json:"prerequisites" validate:"omitempty,dive,required,max=20"`
}
