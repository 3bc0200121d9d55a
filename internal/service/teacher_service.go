package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-portal-api/internal/dto"
	"github.com/noah-isme/univ-portal-api/internal/models"
	"github.com/noah-isme/univ-portal-api/internal/store"
	appErrors "github.com/noah-isme/univ-portal-api/pkg/errors"
)

// TeacherService orchestrates teacher catalog operations.
type TeacherService struct {
	store     *store.Store
	validator *validator.Validate
	logger    *zap.Logger
	reporter  outcomeReporter
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(st *store.Store, notifier Notifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{store: st, validator: validate, logger: logger, reporter: newOutcomeReporter(notifier, metrics)}
}

// List returns teachers plus pagination data.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}

	matched := make([]models.Teacher, 0)
	_ = s.store.Read(func(tx *store.Tx) error {
		for _, teacher := range tx.Teachers() {
			if filter.Status != "" && teacher.Status != filter.Status {
				continue
			}
			if filter.Department != "" && !strings.EqualFold(teacher.Department, filter.Department) {
				continue
			}
			if filter.Search != "" && !containsFold(teacher.FullName, filter.Search) && !containsFold(teacher.Email, filter.Search) {
				continue
			}
			matched = append(matched, *teacher.Clone())
		}
		return nil
	})

	total := len(matched)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return matched[start:end], &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	var teacher *models.Teacher
	err := s.store.Read(func(tx *store.Tx) error {
		row, ok := tx.Teacher(id)
		if !ok {
			return notFound("teacher")
		}
		teacher = row.Clone()
		return nil
	})
	return teacher, err
}

// Create registers a new active teacher with no allocations.
func (s *TeacherService) Create(ctx context.Context, req dto.CreateTeacherRequest) (*models.Teacher, error) {
	if err := validatePayload(s.validator, req, "invalid teacher payload"); err != nil {
		s.reporter.report(ctx, "teacher.create", "teacher", "", err)
		return nil, err
	}

	var created *models.Teacher
	err := s.store.Write(func(tx *store.Tx) error {
		email := strings.TrimSpace(req.Email)
		if emailTaken(tx, email, "") {
			return appErrors.Clone(appErrors.ErrConflict, "email already used")
		}
		teacher := &models.Teacher{
			FullName:    strings.TrimSpace(req.FullName),
			Email:       email,
			EmployeeID:  normalizeOptional(req.EmployeeID),
			Department:  strings.TrimSpace(req.Department),
			Designation: normalizeOptional(req.Designation),
			MaxSubjects: req.MaxSubjects,
			Status:      models.TeacherStatusActive,
			Allocations: []models.Allocation{},
		}
		tx.PutTeacher(teacher)
		created = teacher.Clone()
		return nil
	})
	id := ""
	if created != nil {
		id = created.ID
	}
	s.reporter.report(ctx, "teacher.create", "teacher", id, err)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("teacher created", zap.String("teacher_id", created.ID))
	return created, nil
}

// Update modifies teacher profile and capacity. Capacity cannot drop below the
// number of subjects the teacher currently holds.
func (s *TeacherService) Update(ctx context.Context, id string, req dto.UpdateTeacherRequest) (*models.Teacher, error) {
	if err := validatePayload(s.validator, req, "invalid teacher payload"); err != nil {
		s.reporter.report(ctx, "teacher.update", "teacher", id, err)
		return nil, err
	}

	var updated *models.Teacher
	err := s.store.Write(func(tx *store.Tx) error {
		teacher, ok := tx.Teacher(id)
		if !ok {
			return notFound("teacher")
		}
		if req.MaxSubjects != nil && *req.MaxSubjects < teacher.CurrentSubjects {
			return validationError("max_subjects cannot be lower than current_subjects")
		}
		if req.Email != nil {
			email := strings.TrimSpace(*req.Email)
			if emailTaken(tx, email, id) {
				return appErrors.Clone(appErrors.ErrConflict, "email already used")
			}
			teacher.Email = email
		}
		if req.FullName != nil {
			teacher.FullName = strings.TrimSpace(*req.FullName)
		}
		if req.Department != nil {
			teacher.Department = strings.TrimSpace(*req.Department)
		}
		if req.Designation != nil {
			teacher.Designation = normalizeOptional(req.Designation)
		}
		if req.MaxSubjects != nil {
			teacher.MaxSubjects = *req.MaxSubjects
		}
		tx.PutTeacher(teacher)
		updated = teacher.Clone()
		return nil
	})
	s.reporter.report(ctx, "teacher.update", "teacher", id, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetStatus activates or deactivates a teacher. Existing allocations are kept; an
// inactive teacher only stops receiving new ones.
func (s *TeacherService) SetStatus(ctx context.Context, id string, req dto.SetTeacherStatusRequest) (*models.Teacher, error) {
	if err := validatePayload(s.validator, req, "invalid teacher status"); err != nil {
		s.reporter.report(ctx, "teacher.status", "teacher", id, err)
		return nil, err
	}

	var updated *models.Teacher
	err := s.store.Write(func(tx *store.Tx) error {
		teacher, ok := tx.Teacher(id)
		if !ok {
			return notFound("teacher")
		}
		teacher.Status = models.TeacherStatus(req.Status)
		tx.PutTeacher(teacher)
		updated = teacher.Clone()
		return nil
	})
	s.reporter.report(ctx, "teacher.status", "teacher", id, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func emailTaken(tx *store.Tx, email, excludeID string) bool {
	for _, teacher := range tx.Teachers() {
		if teacher.ID != excludeID && strings.EqualFold(teacher.Email, email) {
			return true
		}
	}
	return false
}
