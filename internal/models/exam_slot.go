package models

import "time"

// ExamSlot is a bookable date, time range and location that holds at most one exam.
// ExamID != nil implies IsAvailable == false.
type ExamSlot struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity"`
	IsAvailable bool      `json:"is_available"`
	ExamID      *string   `json:"exam_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Occupied reports whether an exam is bound to the slot.
func (s *ExamSlot) Occupied() bool {
	return s.ExamID != nil
}

// Clone returns a copy that does not share the exam pointer.
func (s *ExamSlot) Clone() *ExamSlot {
	cp := *s
	if s.ExamID != nil {
		id := *s.ExamID
		cp.ExamID = &id
	}
	return &cp
}
