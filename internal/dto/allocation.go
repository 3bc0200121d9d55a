package dto

// AllocateSubjectRequest assigns a subject to a teacher.
type AllocateSubjectRequest struct {
	SubjectID        string `json:"subject_id" validate:"required"`
	EnrolledStudents int    `json:"enrolled_students" validate:"omitempty,min=0"`
}

// AvailableSubjectsQuery scopes the available subject listing. TeacherID is the
// teacher currently selected by the caller; subjects already allocated to that
// teacher are excluded.
type AvailableSubjectsQuery struct {
	TeacherID string
	Branch    string
	Semester  int
	Search    string
}
