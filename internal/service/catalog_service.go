package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/univ-portal-api/internal/models"
	"github.com/noah-isme/univ-portal-api/internal/store"
	appErrors "github.com/noah-isme/univ-portal-api/pkg/errors"
)

type teacherSource interface {
	ListAll(ctx context.Context) ([]models.Teacher, error)
	ListAllocations(ctx context.Context) ([]models.Allocation, error)
}

type subjectSource interface {
	ListAll(ctx context.Context) ([]models.Subject, error)
}

// HydrationReport summarises a catalog load.
type HydrationReport struct {
	Teachers           int `json:"teachers"`
	Subjects           int `json:"subjects"`
	Allocations        int `json:"allocations"`
	SkippedAllocations int `json:"skipped_allocations"`
}

// CatalogService loads teachers, subjects and allocations from the database into the
// in-memory store at startup.
type CatalogService struct {
	store    *store.Store
	teachers teacherSource
	subjects subjectSource
	logger   *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(st *store.Store, teachers teacherSource, subjects subjectSource, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{store: st, teachers: teachers, subjects: subjects, logger: logger}
}

// Hydrate upserts rows by id. Persisted allocations that would
// break an invariant (unknown teacher or subject, duplicate pair, capacity overflow)
// are skipped and logged.
func (s *CatalogService) Hydrate(ctx context.Context) (*HydrationReport, error) {
	subjects, err := s.subjects.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	teachers, err := s.teachers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	allocations, err := s.teachers.ListAllocations(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load allocations")
	}

	report := &HydrationReport{Teachers: len(teachers), Subjects: len(subjects)}
	_ = s.store.Write(func(tx *store.Tx) error {
		for i := range subjects {
			subject := subjects[i].Clone()
			tx.PutSubject(&subject)
		}
		for i := range teachers {
			teacher := teachers[i]
			if !teacher.Status.Valid() {
				teacher.Status = models.TeacherStatusInactive
			}
			teacher.Allocations = []models.Allocation{}
			tx.PutTeacher(&teacher)
		}
		for _, allocation := range allocations {
			if reason := s.rejectAllocation(tx, allocation); reason != "" {
				report.SkippedAllocations++
				s.logger.Warn("skipping persisted allocation",
					zap.String("allocation_id", allocation.ID),
					zap.String("teacher_id", allocation.TeacherID),
					zap.String("subject_id", allocation.SubjectID),
					zap.String("reason", reason))
				continue
			}
			teacher, _ := tx.Teacher(allocation.TeacherID)
			teacher.AddAllocation(allocation)
			report.Allocations++
		}
		return nil
	})

	s.logger.Info("catalog hydrated",
		zap.Int("teachers", report.Teachers),
		zap.Int("subjects", report.Subjects),
		zap.Int("allocations", report.Allocations),
		zap.Int("skipped_allocations", report.SkippedAllocations))
	return report, nil
}

func (s *CatalogService) rejectAllocation(tx *store.Tx, allocation models.Allocation) string {
	teacher, ok := tx.Teacher(allocation.TeacherID)
	if !ok {
		return "unknown teacher"
	}
	if _, ok := tx.Subject(allocation.SubjectID); !ok {
		return "unknown subject"
	}
	if teacher.HasSubject(allocation.SubjectID) {
		return "duplicate allocation"
	}
	if teacher.CurrentSubjects >= teacher.MaxSubjects {
		return "capacity exceeded"
	}
	return ""
}
