package models

import "time"

// CoursePlanStatus represents lifecycle phases for course plans.
type CoursePlanStatus string

const (
	CoursePlanStatusActive   CoursePlanStatus = "ACTIVE"
	CoursePlanStatusDraft    CoursePlanStatus = "DRAFT"
	CoursePlanStatusArchived CoursePlanStatus = "ARCHIVED"
)

// Valid reports whether the status is a known value.
func (s CoursePlanStatus) Valid() bool {
	switch s {
	case CoursePlanStatusActive, CoursePlanStatusDraft, CoursePlanStatusArchived:
		return true
	}
	return false
}

// CoursePlan is the ordered set of subjects offered to a branch in a semester.
// TotalCredits is derived from Subjects and refreshed on every mutation.
type CoursePlan struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Branch           string           `json:"branch"`
	Semester         int              `json:"semester"`
	AcademicYear     string           `json:"academic_year"`
	Status           CoursePlanStatus `json:"status"`
	EnrolledStudents int              `json:"enrolled_students"`
	Subjects         []Subject        `json:"subjects"`
	TotalCredits     int              `json:"total_credits"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// HasSubject reports whether the plan already holds the subject.
func (p *CoursePlan) HasSubject(subjectID string) bool {
	for i := range p.Subjects {
		if p.Subjects[i].ID == subjectID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand out of the store.
func (p *CoursePlan) Clone() *CoursePlan {
	cp := *p
	cp.Subjects = make([]Subject, len(p.Subjects))
	for i := range p.Subjects {
		cp.Subjects[i] = p.Subjects[i].Clone()
	}
	return &cp
}

// CoursePlanSummary is the derived view over a plan's live subject set.
type CoursePlanSummary struct {
	PlanID        string `json:"plan_id"`
	SubjectCount  int    `json:"subject_count"`
	TotalCredits  int    `json:"total_credits"`
	CoreCount     int    `json:"core_count"`
	ElectiveCount int    `json:"elective_count"`
	GeneralCount  int    `json:"general_count"`
}

// CoursePlanFilter captures filters for listing plans.
type CoursePlanFilter struct {
	Branch   string
	Semester int
	Status   CoursePlanStatus
}
