package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-portal-api/internal/dto"
	"github.com/noah-isme/univ-portal-api/internal/models"
	"github.com/noah-isme/univ-portal-api/internal/store"
	appErrors "github.com/noah-isme/univ-portal-api/pkg/errors"
)

// AllocationOptions tunes allocation rules.
type AllocationOptions struct {
	// ExclusiveSubjects rejects a subject already held by another teacher. When false,
	// the same subject may be co-taught by several teachers.
	ExclusiveSubjects bool
}

// AllocationService assigns subjects to teachers under capacity and duplication rules.
type AllocationService struct {
	store     *store.Store
	opts      AllocationOptions
	validator *validator.Validate
	logger    *zap.Logger
	reporter  outcomeReporter
}

// NewAllocationService creates a service instance.
func NewAllocationService(st *store.Store, opts AllocationOptions, notifier Notifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AllocationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationService{
		store:     st,
		opts:      opts,
		validator: validate,
		logger:    logger,
		reporter:  newOutcomeReporter(notifier, metrics),
	}
}

// Allocate binds a subject to a teacher. Checks run in order: teacher exists and is
// active, subject exists, capacity, duplicate pair, then (exclusive mode only) no
// other holder. Nothing is mutated unless every check passes.
func (s *AllocationService) Allocate(ctx context.Context, teacherID string, req dto.AllocateSubjectRequest) (*models.AllocationDetail, error) {
	if err := validatePayload(s.validator, req, "invalid allocation payload"); err != nil {
		s.reporter.report(ctx, "allocation.create", "teacher", teacherID, err)
		return nil, err
	}

	var detail *models.AllocationDetail
	err := s.store.Write(func(tx *store.Tx) error {
		teacher, ok := tx.Teacher(teacherID)
		if !ok {
			return notFound("teacher")
		}
		if !teacher.Active() {
			return appErrors.Clone(appErrors.ErrTeacherInactive, "")
		}
		subject, ok := tx.Subject(req.SubjectID)
		if !ok {
			return notFound("subject")
		}
		if teacher.CurrentSubjects >= teacher.MaxSubjects {
			return appErrors.Clone(appErrors.ErrCapacityExceeded,
				fmt.Sprintf("teacher already holds %d of %d subjects", teacher.CurrentSubjects, teacher.MaxSubjects))
		}
		if teacher.HasSubject(subject.ID) {
			return appErrors.Clone(appErrors.ErrDuplicateAssignment, "")
		}
		if s.opts.ExclusiveSubjects {
			if holder := subjectHolder(tx, subject.ID, teacherID); holder != nil {
				return appErrors.Clone(appErrors.ErrSubjectAllocated,
					fmt.Sprintf("subject already allocated to %s", holder.FullName))
			}
		}

		allocation := models.Allocation{
			ID:               tx.NewID(),
			TeacherID:        teacherID,
			SubjectID:        subject.ID,
			EnrolledStudents: req.EnrolledStudents,
			CreatedAt:        tx.Now(),
		}
		teacher.AddAllocation(allocation)
		tx.PutTeacher(teacher)
		view := joinAllocation(allocation, subject)
		detail = &view
		return nil
	})
	s.reporter.report(ctx, "allocation.create", "teacher", teacherID, err)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("subject allocated", zap.String("teacher_id", teacherID), zap.String("subject_id", req.SubjectID))
	return detail, nil
}

// Deallocate removes the (teacher, subject) pair. A second call for the same pair
// reports not found and leaves state unchanged.
func (s *AllocationService) Deallocate(ctx context.Context, teacherID, subjectID string) error {
	err := s.store.Write(func(tx *store.Tx) error {
		teacher, ok := tx.Teacher(teacherID)
		if !ok {
			return notFound("teacher")
		}
		if !teacher.RemoveAllocation(subjectID) {
			return appErrors.Clone(appErrors.ErrAllocationNotFound, "")
		}
		tx.PutTeacher(teacher)
		return nil
	})
	s.reporter.report(ctx, "allocation.delete", "teacher", teacherID, err)
	return err
}

// ListAllocations returns the teacher's allocations joined with current subject data.
func (s *AllocationService) ListAllocations(ctx context.Context, teacherID string) ([]models.AllocationDetail, error) {
	details := make([]models.AllocationDetail, 0)
	err := s.store.Read(func(tx *store.Tx) error {
		teacher, ok := tx.Teacher(teacherID)
		if !ok {
			return notFound("teacher")
		}
		for _, allocation := range teacher.Allocations {
			subject, ok := tx.Subject(allocation.SubjectID)
			if !ok {
				details = append(details, models.AllocationDetail{Allocation: allocation})
				continue
			}
			details = append(details, joinAllocation(allocation, subject))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

// ListAvailable returns subjects matching the query that the selected teacher does not
// already hold. Without a teacher id no subject is excluded. It never mutates state.
func (s *AllocationService) ListAvailable(ctx context.Context, query dto.AvailableSubjectsQuery) ([]models.Subject, error) {
	subjects := make([]models.Subject, 0)
	err := s.store.Read(func(tx *store.Tx) error {
		var teacher *models.Teacher
		if query.TeacherID != "" {
			row, ok := tx.Teacher(query.TeacherID)
			if !ok {
				return notFound("teacher")
			}
			teacher = row
		}
		filter := models.SubjectFilter{
			Branch:   strings.TrimSpace(query.Branch),
			Semester: query.Semester,
			Search:   strings.TrimSpace(query.Search),
		}
		for _, subject := range tx.Subjects() {
			if !matchesSubjectFilter(subject, filter) {
				continue
			}
			if teacher != nil && teacher.HasSubject(subject.ID) {
				continue
			}
			subjects = append(subjects, subject.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

func subjectHolder(tx *store.Tx, subjectID, excludeTeacherID string) *models.Teacher {
	for _, teacher := range tx.Teachers() {
		if teacher.ID != excludeTeacherID && teacher.HasSubject(subjectID) {
			return teacher
		}
	}
	return nil
}

func joinAllocation(allocation models.Allocation, subject *models.Subject) models.AllocationDetail {
	return models.AllocationDetail{
		Allocation:  allocation,
		SubjectCode: subject.Code,
		SubjectName: subject.Name,
		Semester:    subject.Semester,
		Credits:     subject.Credits,
	}
}
