package service

import (
	"context"
	"strings"

	"github.com/noah-isme/univ-portal-api/internal/dto"
	"github.com/noah-isme/univ-portal-api/internal/models"
	"github.com/noah-isme/univ-portal-api/internal/store"
	appErrors "github.com/noah-isme/univ-portal-api/pkg/errors"
)

// ListExams returns exams matching the filter in creation order.
func (s *ExamScheduleService) ListExams(ctx context.Context, filter models.ExamFilter) ([]models.Exam, error) {
	exams := make([]models.Exam, 0)
	_ = s.store.Read(func(tx *store.Tx) error {
		for _, exam := range tx.Exams() {
			if filter.Branch != "" && !strings.EqualFold(exam.Branch, filter.Branch) {
				continue
			}
			if filter.Semester > 0 && exam.Semester != filter.Semester {
				continue
			}
			if filter.Status != "" && exam.Status != filter.Status {
				continue
			}
			exams = append(exams, *exam.Clone())
		}
		return nil
	})
	return exams, nil
}

// GetExam returns one exam.
func (s *ExamScheduleService) GetExam(ctx context.Context, id string) (*models.Exam, error) {
	var exam *models.Exam
	err := s.store.Read(func(tx *store.Tx) error {
		row, ok := tx.Exam(id)
		if !ok {
			return notFound("exam")
		}
		exam = row.Clone()
		return nil
	})
	return exam, err
}

// CreateExam schedules an exam. With a slot id the exam takes the slot's date, start
// time and location and the slot is bound in the same write.
func (s *ExamScheduleService) CreateExam(ctx context.Context, req dto.CreateExamRequest) (*models.Exam, error) {
	if err := validatePayload(s.validator, req, "invalid exam payload"); err != nil {
		s.reporter.report(ctx, "exam.create", "exam", "", err)
		return nil, err
	}

	exam := &models.Exam{
		Course:          strings.TrimSpace(req.Course),
		CourseCode:      strings.ToUpper(strings.TrimSpace(req.CourseCode)),
		Semester:        req.Semester,
		Branch:          strings.TrimSpace(req.Branch),
		ExamType:        models.ExamType(req.ExamType),
		Date:            strings.TrimSpace(req.Date),
		Time:            strings.TrimSpace(req.Time),
		DurationMinutes: req.DurationMinutes,
		Location:        strings.TrimSpace(req.Location),
		MaxMarks:        req.MaxMarks,
		Instructor:      strings.TrimSpace(req.Instructor),
		Topics:          append([]string{}, req.Topics...),
		Status:          models.ExamStatusScheduled,
		CreatedBy:       strings.TrimSpace(req.CreatedBy),
	}

	err := s.store.Write(func(tx *store.Tx) error {
		var slot *models.ExamSlot
		if req.SlotID != nil {
			row, ok := tx.Slot(*req.SlotID)
			if !ok {
				return notFound("exam slot")
			}
			if row.Occupied() || !row.IsAvailable {
				return appErrors.Clone(appErrors.ErrSlotOccupied, "slot is not available")
			}
			slot = row
			exam.Date = slot.Date
			exam.Time = slot.StartTime
			exam.Location = slot.Location
		}
		if err := checkExam(exam); err != nil {
			return err
		}
		tx.PutExam(exam)
		if slot != nil {
			bindSlot(tx, slot, exam.ID)
		}
		exam = exam.Clone()
		return nil
	})
	s.reporter.report(ctx, "exam.create", "exam", exam.ID, err)
	if err != nil {
		return nil, err
	}
	return exam, nil
}

// UpdateExam patches exam fields. Status writes must follow
// SCHEDULED -> ONGOING -> COMPLETED or SCHEDULED|ONGOING -> CANCELLED.
func (s *ExamScheduleService) UpdateExam(ctx context.Context, id string, req dto.UpdateExamRequest) (*models.Exam, error) {
	if err := validatePayload(s.validator, req, "invalid exam payload"); err != nil {
		s.reporter.report(ctx, "exam.update", "exam", id, err)
		return nil, err
	}

	var updated *models.Exam
	err := s.store.Write(func(tx *store.Tx) error {
		row, ok := tx.Exam(id)
		if !ok {
			return notFound("exam")
		}
		if req.Status != nil {
			next := models.ExamStatus(*req.Status)
			if !row.Status.CanTransitionTo(next) {
				return appErrors.Clone(appErrors.ErrInvalidTransition,
					"exam cannot move from "+string(row.Status)+" to "+string(next))
			}
		}

		exam := row.Clone()
		if req.Course != nil {
			exam.Course = strings.TrimSpace(*req.Course)
		}
		if req.CourseCode != nil {
			exam.CourseCode = strings.ToUpper(strings.TrimSpace(*req.CourseCode))
		}
		if req.ExamType != nil {
			exam.ExamType = models.ExamType(*req.ExamType)
		}
		if req.Date != nil {
			exam.Date = strings.TrimSpace(*req.Date)
		}
		if req.Time != nil {
			exam.Time = strings.TrimSpace(*req.Time)
		}
		if req.DurationMinutes != nil {
			exam.DurationMinutes = *req.DurationMinutes
		}
		if req.Location != nil {
			exam.Location = strings.TrimSpace(*req.Location)
		}
		if req.MaxMarks != nil {
			exam.MaxMarks = *req.MaxMarks
		}
		if req.Instructor != nil {
			exam.Instructor = strings.TrimSpace(*req.Instructor)
		}
		if req.Topics != nil {
			exam.Topics = append([]string{}, req.Topics...)
		}
		if req.Status != nil {
			exam.Status = models.ExamStatus(*req.Status)
		}
		if err := checkExam(exam); err != nil {
			return err
		}
		tx.PutExam(exam)
		updated = exam.Clone()
		return nil
	})
	s.reporter.report(ctx, "exam.update", "exam", id, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteExam removes the exam and frees any slot bound to it.
func (s *ExamScheduleService) DeleteExam(ctx context.Context, id string) error {
	err := s.store.Write(func(tx *store.Tx) error {
		if _, ok := tx.Exam(id); !ok {
			return notFound("exam")
		}
		for _, slot := range tx.Slots() {
			if slot.ExamID != nil && *slot.ExamID == id {
				unbindSlot(tx, slot)
			}
		}
		tx.DeleteExam(id)
		return nil
	})
	s.reporter.report(ctx, "exam.delete", "exam", id, err)
	return err
}

// checkExam re-validates fields after trimming, since whitespace passes the
// payload tags.
func checkExam(exam *models.Exam) error {
	switch {
	case exam.Course == "":
		return validationError("course is required")
	case exam.CourseCode == "":
		return validationError("course code is required")
	case exam.Location == "":
		return validationError("location is required")
	}
	if err := checkDate(exam.Date); err != nil {
		return err
	}
	return checkClock(exam.Time)
}
