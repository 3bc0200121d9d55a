package models

import "time"

// Allocation binds one subject to one teacher. Display fields are joined from the
// subject catalog at read time.
type Allocation struct {
	ID               string    `db:"id" json:"id"`
	TeacherID        string    `db:"teacher_id" json:"teacher_id"`
	SubjectID        string    `db:"subject_id" json:"subject_id"`
	EnrolledStudents int       `db:"enrolled_students" json:"enrolled_students"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// AllocationDetail enriches an allocation with the current subject fields.
type AllocationDetail struct {
	Allocation
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
	Semester    int    `json:"semester"`
	Credits     int    `json:"credits"`
}
