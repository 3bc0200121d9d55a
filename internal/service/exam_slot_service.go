package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-portal-api/internal/dto"
	"github.com/noah-isme/univ-portal-api/internal/models"
	"github.com/noah-isme/univ-portal-api/internal/store"
	appErrors "github.com/noah-isme/univ-portal-api/pkg/errors"
)

// ExamScheduleOptions tunes slot rules.
type ExamScheduleOptions struct {
	// RejectOverlap refuses slots whose date and location match an existing slot with
	// an intersecting time range.
	RejectOverlap bool
}

// ExamScheduleService manages exam slots and the exams placed into them. A slot moves
// between AVAILABLE and OCCUPIED only through BindExam and UnbindExam (or deleting
// the bound exam).
type ExamScheduleService struct {
	store     *store.Store
	opts      ExamScheduleOptions
	validator *validator.Validate
	logger    *zap.Logger
	reporter  outcomeReporter
}

// NewExamScheduleService constructs the scheduler.
func NewExamScheduleService(st *store.Store, opts ExamScheduleOptions, notifier Notifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ExamScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamScheduleService{
		store:     st,
		opts:      opts,
		validator: validate,
		logger:    logger,
		reporter:  newOutcomeReporter(notifier, metrics),
	}
}

// ListSlots returns slots in creation order, optionally only available ones.
func (s *ExamScheduleService) ListSlots(ctx context.Context, availableOnly bool) ([]models.ExamSlot, error) {
	slots := make([]models.ExamSlot, 0)
	_ = s.store.Read(func(tx *store.Tx) error {
		for _, slot := range tx.Slots() {
			if availableOnly && !slot.IsAvailable {
				continue
			}
			slots = append(slots, *slot.Clone())
		}
		return nil
	})
	return slots, nil
}

// GetSlot returns one slot.
func (s *ExamScheduleService) GetSlot(ctx context.Context, id string) (*models.ExamSlot, error) {
	var slot *models.ExamSlot
	err := s.store.Read(func(tx *store.Tx) error {
		row, ok := tx.Slot(id)
		if !ok {
			return notFound("exam slot")
		}
		slot = row.Clone()
		return nil
	})
	return slot, err
}

// CreateSlot adds an available, unbound slot.
func (s *ExamScheduleService) CreateSlot(ctx context.Context, req dto.CreateExamSlotRequest) (*models.ExamSlot, error) {
	if err := validatePayload(s.validator, req, "invalid exam slot payload"); err != nil {
		s.reporter.report(ctx, "slot.create", "exam_slot", "", err)
		return nil, err
	}

	slot := &models.ExamSlot{
		Date:        strings.TrimSpace(req.Date),
		StartTime:   strings.TrimSpace(req.StartTime),
		EndTime:     strings.TrimSpace(req.EndTime),
		Location:    strings.TrimSpace(req.Location),
		Capacity:    req.Capacity,
		IsAvailable: true,
	}
	err := s.store.Write(func(tx *store.Tx) error {
		if err := s.checkSlotWindow(tx, slot, ""); err != nil {
			return err
		}
		tx.PutSlot(slot)
		slot = slot.Clone()
		return nil
	})
	s.reporter.report(ctx, "slot.create", "exam_slot", slot.ID, err)
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// UpdateSlot patches date, time range, location or capacity. Occupancy is untouched.
func (s *ExamScheduleService) UpdateSlot(ctx context.Context, id string, req dto.UpdateExamSlotRequest) (*models.ExamSlot, error) {
	if err := validatePayload(s.validator, req, "invalid exam slot payload"); err != nil {
		s.reporter.report(ctx, "slot.update", "exam_slot", id, err)
		return nil, err
	}

	var updated *models.ExamSlot
	err := s.store.Write(func(tx *store.Tx) error {
		row, ok := tx.Slot(id)
		if !ok {
			return notFound("exam slot")
		}
		candidate := row.Clone()
		if req.Date != nil {
			candidate.Date = strings.TrimSpace(*req.Date)
		}
		if req.StartTime != nil {
			candidate.StartTime = strings.TrimSpace(*req.StartTime)
		}
		if req.EndTime != nil {
			candidate.EndTime = strings.TrimSpace(*req.EndTime)
		}
		if req.Location != nil {
			candidate.Location = strings.TrimSpace(*req.Location)
		}
		if req.Capacity != nil {
			candidate.Capacity = *req.Capacity
		}
		if err := s.checkSlotWindow(tx, candidate, id); err != nil {
			return err
		}
		tx.PutSlot(candidate)
		updated = candidate.Clone()
		return nil
	})
	s.reporter.report(ctx, "slot.update", "exam_slot", id, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteSlot removes an available slot.
func (s *ExamScheduleService) DeleteSlot(ctx context.Context, id string) error {
	err := s.store.Write(func(tx *store.Tx) error {
		slot, ok := tx.Slot(id)
		if !ok {
			return notFound("exam slot")
		}
		if slot.Occupied() {
			return appErrors.Clone(appErrors.ErrSlotOccupied, "slot has an exam bound; unbind it first")
		}
		if !slot.IsAvailable {
			return appErrors.Clone(appErrors.ErrSlotOccupied, "slot is not available")
		}
		tx.DeleteSlot(id)
		return nil
	})
	s.reporter.report(ctx, "slot.delete", "exam_slot", id, err)
	return err
}

// BindExam places an exam into an available slot. An exam sits in at most one slot.
func (s *ExamScheduleService) BindExam(ctx context.Context, slotID string, req dto.BindExamRequest) (*models.ExamSlot, error) {
	if err := validatePayload(s.validator, req, "invalid bind payload"); err != nil {
		s.reporter.report(ctx, "slot.bind", "exam_slot", slotID, err)
		return nil, err
	}

	var bound *models.ExamSlot
	err := s.store.Write(func(tx *store.Tx) error {
		slot, ok := tx.Slot(slotID)
		if !ok {
			return notFound("exam slot")
		}
		if _, ok := tx.Exam(req.ExamID); !ok {
			return notFound("exam")
		}
		if slot.Occupied() {
			return appErrors.Clone(appErrors.ErrSlotOccupied, "")
		}
		if !slot.IsAvailable {
			return appErrors.Clone(appErrors.ErrSlotOccupied, "slot is not available")
		}
		if other := slotForExam(tx, req.ExamID); other != nil {
			return appErrors.Clone(appErrors.ErrConflict, "exam already placed in slot "+other.ID)
		}
		bindSlot(tx, slot, req.ExamID)
		bound = slot.Clone()
		return nil
	})
	s.reporter.report(ctx, "slot.bind", "exam_slot", slotID, err)
	if err != nil {
		return nil, err
	}
	return bound, nil
}

// UnbindExam vacates the slot, leaving it available with no exam.
func (s *ExamScheduleService) UnbindExam(ctx context.Context, slotID string) (*models.ExamSlot, error) {
	var vacated *models.ExamSlot
	err := s.store.Write(func(tx *store.Tx) error {
		slot, ok := tx.Slot(slotID)
		if !ok {
			return notFound("exam slot")
		}
		unbindSlot(tx, slot)
		vacated = slot.Clone()
		return nil
	})
	s.reporter.report(ctx, "slot.unbind", "exam_slot", slotID, err)
	if err != nil {
		return nil, err
	}
	return vacated, nil
}

// ToggleAvailability flips availability of an unoccupied slot.
func (s *ExamScheduleService) ToggleAvailability(ctx context.Context, slotID string) (*models.ExamSlot, error) {
	var toggled *models.ExamSlot
	err := s.store.Write(func(tx *store.Tx) error {
		slot, ok := tx.Slot(slotID)
		if !ok {
			return notFound("exam slot")
		}
		if slot.Occupied() {
			return appErrors.Clone(appErrors.ErrSlotOccupied, "slot has an exam bound; unbind it first")
		}
		slot.IsAvailable = !slot.IsAvailable
		tx.PutSlot(slot)
		toggled = slot.Clone()
		return nil
	})
	s.reporter.report(ctx, "slot.toggle", "exam_slot", slotID, err)
	if err != nil {
		return nil, err
	}
	return toggled, nil
}

func (s *ExamScheduleService) checkSlotWindow(tx *store.Tx, slot *models.ExamSlot, selfID string) error {
	if slot.Location == "" {
		return validationError("location is required")
	}
	if slot.Capacity < 1 {
		return validationError("capacity must be positive")
	}
	from, to, err := parseTimeRange(slot.Date, slot.StartTime, slot.EndTime)
	if err != nil {
		return err
	}
	if !s.opts.RejectOverlap {
		return nil
	}
	for _, other := range tx.Slots() {
		if other.ID == selfID || other.Date != slot.Date || !strings.EqualFold(other.Location, slot.Location) {
			continue
		}
		otherFrom, otherTo, err := parseTimeRange(other.Date, other.StartTime, other.EndTime)
		if err != nil {
			continue
		}
		if overlaps(from, to, otherFrom, otherTo) {
			return appErrors.Clone(appErrors.ErrSlotConflict,
				"slot overlaps "+other.StartTime+"-"+other.EndTime+" at "+other.Location)
		}
	}
	return nil
}

func overlaps(aFrom, aTo, bFrom, bTo time.Time) bool {
	return aFrom.Before(bTo) && bFrom.Before(aTo)
}

func bindSlot(tx *store.Tx, slot *models.ExamSlot, examID string) {
	id := examID
	slot.ExamID = &id
	slot.IsAvailable = false
	tx.PutSlot(slot)
}

func unbindSlot(tx *store.Tx, slot *models.ExamSlot) {
	slot.ExamID = nil
	slot.IsAvailable = true
	tx.PutSlot(slot)
}

func slotForExam(tx *store.Tx, examID string) *models.ExamSlot {
	for _, slot := range tx.Slots() {
		if slot.ExamID != nil && *slot.ExamID == examID {
			return slot
		}
	}
	return nil
}
