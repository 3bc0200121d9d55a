package dto

// CreateExamSlotRequest describes a bookable exam slot.
type CreateExamSlotRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
	Location  string `json:"location" validate:"required,max=120"`
	Capacity  int    `json:"capacity" validate:"required,min=1"`
}

// UpdateExamSlotRequest patches slot fields.
type UpdateExamSlotRequest struct {
	Date      *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"end_time" validate:"omitempty,datetime=15:04"`
	Location  *string `json:"location" validate:"omitempty,min=1,max=120"`
	Capacity  *int    `json:"capacity" validate:"omitempty,min=1"`
}

// BindExamRequest places an exam into a slot.
type BindExamRequest struct {
	ExamID string `json:"exam_id" validate:"required"`
}

// CreateExamRequest schedules an exam. When SlotID is set, date, time and location
// are taken from the slot and the slot is bound to the new exam.
type CreateExamRequest struct {
	SlotID          *string  `json:"slot_id"`
	Course          string   `json:"course" validate:"required,max=200"`
	CourseCode      string   `json:"course_code" validate:"required,max=20"`
	Semester        int      `json:"semester" validate:"required,min=1,max=12"`
	Branch          string   `json:"branch" validate:"required,max=80"`
	ExamType        string   `json:"exam_type" validate:"required,oneof=MIDTERM FINAL QUIZ PRACTICAL"`
	Date            string   `json:"date" validate:"required_without=SlotID"`
	Time            string   `json:"time" validate:"required_without=SlotID"`
	DurationMinutes int      `json:"duration_minutes" validate:"required,min=1,max=600"`
	Location        string   `json:"location" validate:"required_without=SlotID,max=120"`
	MaxMarks        int      `json:"max_marks" validate:"required,min=1"`
	Instructor      string   `json:"instructor" validate:"omitempty,max=200"`
	Topics          []string `json:"topics" validate:"omitempty,dive,required"`
	CreatedBy       string   `json:"created_by" validate:"omitempty,max=200"`
}

// UpdateExamRequest patches exam fields. Status writes follow the exam state machine.
type UpdateExamRequest struct {
	Course          *string  `json:"course" validate:"omitempty,min=1,max=200"`
	CourseCode      *string  `json:"course_code" validate:"omitempty,min=1,max=20"`
	ExamType        *string  `json:"exam_type" validate:"omitempty,oneof=MIDTERM FINAL QUIZ PRACTICAL"`
	Date            *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time            *string  `json:"time" validate:"omitempty,datetime=15:04"`
	DurationMinutes *int     `json:"duration_minutes" validate:"omitempty,min=1,max=600"`
	Location        *string  `json:"location" validate:"omitempty,min=1,max=120"`
	MaxMarks        *int     `json:"max_marks" validate:"omitempty,min=1"`
	Instructor      *string  `json:"instructor" validate:"omitempty,max=200"`
	Topics          []string `json:"topics" validate:"omitempty,dive,required"`
	Status          *string  `json:"status" validate:"omitempty,oneof=SCHEDULED ONGOING COMPLETED CANCELLED"`
}
