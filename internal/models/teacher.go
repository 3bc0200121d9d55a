package models

import "time"

// TeacherStatus is the lifecycle state of a teacher.
type TeacherStatus string

const (
	TeacherStatusActive   TeacherStatus = "ACTIVE"
	TeacherStatusInactive TeacherStatus = "INACTIVE"
)

// Valid reports whether the status is a known value.
func (s TeacherStatus) Valid() bool {
	switch s {
	case TeacherStatusActive, TeacherStatusInactive:
		return true
	}
	return false
}

// Teacher represents an instructor that can hold subject allocations.
// CurrentSubjects always equals len(Allocations).
type Teacher struct {
	ID              string        `db:"id" json:"id"`
	EmployeeID      *string       `db:"employee_id" json:"employee_id,omitempty"`
	FullName        string        `db:"full_name" json:"full_name"`
	Email           string        `db:"email" json:"email"`
	Department      string        `db:"department" json:"department"`
	Designation     *string       `db:"designation" json:"designation,omitempty"`
	MaxSubjects     int           `db:"max_subjects" json:"max_subjects"`
	CurrentSubjects int           `db:"-" json:"current_subjects"`
	Status          TeacherStatus `db:"status" json:"status"`
	Allocations     []Allocation  `db:"-" json:"allocations"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// Active reports whether the teacher may receive new allocations.
func (t *Teacher) Active() bool {
	return t.Status == TeacherStatusActive
}

// HasSubject reports whether the subject is already allocated to the teacher.
func (t *Teacher) HasSubject(subjectID string) bool {
	return t.allocationIndex(subjectID) >= 0
}

func (t *Teacher) allocationIndex(subjectID string) int {
	for i := range t.Allocations {
		if t.Allocations[i].SubjectID == subjectID {
			return i
		}
	}
	return -1
}

// AddAllocation appends the allocation and keeps the derived counter in sync.
func (t *Teacher) AddAllocation(a Allocation) {
	t.Allocations = append(t.Allocations, a)
	t.CurrentSubjects = len(t.Allocations)
}

// RemoveAllocation drops the allocation for subjectID. It returns false when absent.
func (t *Teacher) RemoveAllocation(subjectID string) bool {
	idx := t.allocationIndex(subjectID)
	if idx < 0 {
		return false
	}
	t.Allocations = append(t.Allocations[:idx], t.Allocations[idx+1:]...)
	t.CurrentSubjects = len(t.Allocations)
	return true
}

// Clone returns a deep copy safe to hand out of the store.
func (t *Teacher) Clone() *Teacher {
	cp := *t
	cp.Allocations = append([]Allocation(nil), t.Allocations...)
	return &cp
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search     string
	Department string
	Status     TeacherStatus
	Page       int
	PageSize   int
}
