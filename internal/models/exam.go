package models

import "time"

// ExamStatus tracks exam progress.
type ExamStatus string

const (
	ExamStatusScheduled ExamStatus = "SCHEDULED"
	ExamStatusOngoing   ExamStatus = "ONGOING"
	ExamStatusCompleted ExamStatus = "COMPLETED"
	ExamStatusCancelled ExamStatus = "CANCELLED"
)

var examTransitions = map[ExamStatus][]ExamStatus{
	ExamStatusScheduled: {ExamStatusOngoing, ExamStatusCancelled},
	ExamStatusOngoing:   {ExamStatusCompleted, ExamStatusCancelled},
}

// Valid reports whether the status is a known value.
func (s ExamStatus) Valid() bool {
	switch s {
	case ExamStatusScheduled, ExamStatusOngoing, ExamStatusCompleted, ExamStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is a legal successor. Writing the current
// status again is always allowed.
func (s ExamStatus) CanTransitionTo(next ExamStatus) bool {
	if s == next {
		return true
	}
	for _, candidate := range examTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ExamType classifies an exam.
type ExamType string

const (
	ExamTypeMidterm   ExamType = "MIDTERM"
	ExamTypeFinal     ExamType = "FINAL"
	ExamTypeQuiz      ExamType = "QUIZ"
	ExamTypePractical ExamType = "PRACTICAL"
)

// Valid reports whether the type is a known value.
func (t ExamType) Valid() bool {
	switch t {
	case ExamTypeMidterm, ExamTypeFinal, ExamTypeQuiz, ExamTypePractical:
		return true
	}
	return false
}

// Exam is a scheduled assessment, optionally placed into an ExamSlot.
type Exam struct {
	ID              string     `json:"id"`
	Course          string     `json:"course"`
	CourseCode      string     `json:"course_code"`
	Semester        int        `json:"semester"`
	Branch          string     `json:"branch"`
	ExamType        ExamType   `json:"exam_type"`
	Date            string     `json:"date"`
	Time            string     `json:"time"`
	DurationMinutes int        `json:"duration_minutes"`
	Location        string     `json:"location"`
	MaxMarks        int        `json:"max_marks"`
	Instructor      string     `json:"instructor"`
	Topics          []string   `json:"topics"`
	Status          ExamStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CreatedBy       string     `json:"created_by"`
}

// Clone returns a copy that does not share the topic slice.
func (e *Exam) Clone() *Exam {
	cp := *e
	cp.Topics = append([]string(nil), e.Topics...)
	return &cp
}

// ExamFilter captures filters for listing exams.
type ExamFilter struct {
	Branch   string
	Semester int
	Status   ExamStatus
}
