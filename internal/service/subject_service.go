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

// SubjectService manages the subject catalog.
type SubjectService struct {
	store     *store.Store
	validator *validator.Validate
	logger    *zap.Logger
	reporter  outcomeReporter
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(st *store.Store, notifier Notifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{store: st, validator: validate, logger: logger, reporter: newOutcomeReporter(notifier, metrics)}
}

// List returns catalog subjects matching the filter in catalog order.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	subjects := make([]models.Subject, 0)
	_ = s.store.Read(func(tx *store.Tx) error {
		for _, subject := range tx.Subjects() {
			if matchesSubjectFilter(subject, filter) {
				subjects = append(subjects, subject.Clone())
			}
		}
		return nil
	})
	return subjects, nil
}

// Get returns one subject.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	var subject models.Subject
	err := s.store.Read(func(tx *store.Tx) error {
		row, ok := tx.Subject(id)
		if !ok {
			return notFound("subject")
		}
		subject = row.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// Create adds a subject. Codes are unique across the catalog. Prerequisites are
// stored as given; no cycle detection is performed.
func (s *SubjectService) Create(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error) {
	if err := validatePayload(s.validator, req, "invalid subject payload"); err != nil {
		s.reporter.report(ctx, "subject.create", "subject", "", err)
		return nil, err
	}

	status := models.SubjectStatus(req.Status)
	if status == "" {
		status = models.SubjectStatusActive
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	var created models.Subject
	err := s.store.Write(func(tx *store.Tx) error {
		if _, exists := tx.SubjectByCode(code); exists {
			return appErrors.Clone(appErrors.ErrConflict, "subject code already used")
		}
		subject := &models.Subject{
			Code:          code,
			Name:          strings.TrimSpace(req.Name),
			Branch:        strings.TrimSpace(req.Branch),
			Semester:      req.Semester,
			Credits:       req.Credits,
			Type:          models.SubjectType(req.Type),
			Status:        status,
			Description:   normalizeOptional(req.Description),
			Prerequisites: normalizeCodes(req.Prerequisites),
		}
		tx.PutSubject(subject)
		created = subject.Clone()
		return nil
	})
	s.reporter.report(ctx, "subject.create", "subject", created.ID, err)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func matchesSubjectFilter(subject *models.Subject, filter models.SubjectFilter) bool {
	if filter.Branch != "" && !strings.EqualFold(subject.Branch, filter.Branch) {
		return false
	}
	if filter.Semester > 0 && subject.Semester != filter.Semester {
		return false
	}
	if filter.Type != "" && subject.Type != filter.Type {
		return false
	}
	if filter.Status != "" && subject.Status != filter.Status {
		return false
	}
	if filter.Search != "" && !containsFold(subject.Name, filter.Search) && !containsFold(subject.Code, filter.Search) {
		return false
	}
	return true
}

func normalizeCodes(codes []string) []string {
	res := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		res = append(res, code)
	}
	return res
}
