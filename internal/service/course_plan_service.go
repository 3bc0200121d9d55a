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

// CoursePlanService maintains the subject set of course plans and keeps the derived
// credit total in step with it.
type CoursePlanService struct {
	store     *store.Store
	validator *validator.Validate
	logger    *zap.Logger
	reporter  outcomeReporter
}

// NewCoursePlanService constructs a CoursePlanService.
func NewCoursePlanService(st *store.Store, notifier Notifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CoursePlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoursePlanService{store: st, validator: validate, logger: logger, reporter: newOutcomeReporter(notifier, metrics)}
}

// List returns plans matching the filter.
func (s *CoursePlanService) List(ctx context.Context, filter models.CoursePlanFilter) ([]models.CoursePlan, error) {
	plans := make([]models.CoursePlan, 0)
	_ = s.store.Read(func(tx *store.Tx) error {
		for _, plan := range tx.Plans() {
			if filter.Branch != "" && !strings.EqualFold(plan.Branch, filter.Branch) {
				continue
			}
			if filter.Semester > 0 && plan.Semester != filter.Semester {
				continue
			}
			if filter.Status != "" && plan.Status != filter.Status {
				continue
			}
			plans = append(plans, *plan.Clone())
		}
		return nil
	})
	return plans, nil
}

// Get returns one plan.
func (s *CoursePlanService) Get(ctx context.Context, id string) (*models.CoursePlan, error) {
	var plan *models.CoursePlan
	err := s.store.Read(func(tx *store.Tx) error {
		row, ok := tx.Plan(id)
		if !ok {
			return notFound("course plan")
		}
		plan = row.Clone()
		return nil
	})
	return plan, err
}

// Create builds a plan, empty or seeded with subject ids. Repeated ids are skipped;
// unknown ids fail the whole call.
func (s *CoursePlanService) Create(ctx context.Context, req dto.CreateCoursePlanRequest) (*models.CoursePlan, error) {
	if err := validatePayload(s.validator, req, "invalid course plan payload"); err != nil {
		s.reporter.report(ctx, "plan.create", "course_plan", "", err)
		return nil, err
	}
	status := models.CoursePlanStatus(req.Status)
	if status == "" {
		status = models.CoursePlanStatusDraft
	}

	plan := &models.CoursePlan{
		Name:             strings.TrimSpace(req.Name),
		Branch:           strings.TrimSpace(req.Branch),
		Semester:         req.Semester,
		AcademicYear:     strings.TrimSpace(req.AcademicYear),
		Status:           status,
		EnrolledStudents: req.EnrolledStudents,
		Subjects:         []models.Subject{},
	}
	err := s.store.Write(func(tx *store.Tx) error {
		for _, id := range req.SubjectIDs {
			subject, ok := tx.Subject(id)
			if !ok {
				return notFound("subject " + id)
			}
			if !plan.HasSubject(id) {
				plan.Subjects = append(plan.Subjects, subject.Clone())
			}
		}
		recompute(plan)
		tx.PutPlan(plan)
		plan = plan.Clone()
		return nil
	})
	s.reporter.report(ctx, "plan.create", "course_plan", plan.ID, err)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Update patches plan metadata. A change of branch or semester clears the subject set
// because subjects belong to one branch and semester, so archived plans refuse it.
func (s *CoursePlanService) Update(ctx context.Context, id string, req dto.UpdateCoursePlanRequest) (*models.CoursePlan, error) {
	if err := validatePayload(s.validator, req, "invalid course plan payload"); err != nil {
		s.reporter.report(ctx, "plan.update", "course_plan", id, err)
		return nil, err
	}

	var updated *models.CoursePlan
	err := s.store.Write(func(tx *store.Tx) error {
		plan, ok := tx.Plan(id)
		if !ok {
			return notFound("course plan")
		}
		branch, semester := plan.Branch, plan.Semester
		if req.Branch != nil {
			branch = strings.TrimSpace(*req.Branch)
		}
		if req.Semester != nil {
			semester = *req.Semester
		}
		scopeChanged := !strings.EqualFold(branch, plan.Branch) || semester != plan.Semester
		if scopeChanged && plan.Status == models.CoursePlanStatusArchived {
			return appErrors.Clone(appErrors.ErrPlanArchived, "archived plan cannot change branch or semester")
		}
		plan.Branch, plan.Semester = branch, semester
		if scopeChanged {
			plan.Subjects = []models.Subject{}
		}
		if req.Name != nil {
			plan.Name = strings.TrimSpace(*req.Name)
		}
		if req.AcademicYear != nil {
			plan.AcademicYear = strings.TrimSpace(*req.AcademicYear)
		}
		if req.Status != nil {
			plan.Status = models.CoursePlanStatus(*req.Status)
		}
		if req.EnrolledStudents != nil {
			plan.EnrolledStudents = *req.EnrolledStudents
		}
		recompute(plan)
		tx.PutPlan(plan)
		updated = plan.Clone()
		return nil
	})
	s.reporter.report(ctx, "plan.update", "course_plan", id, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddSubject appends a catalog subject to the plan.
func (s *CoursePlanService) AddSubject(ctx context.Context, planID string, req dto.AddPlanSubjectRequest) (*models.CoursePlan, error) {
	if err := validatePayload(s.validator, req, "invalid plan subject payload"); err != nil {
		s.reporter.report(ctx, "plan.subject.add", "course_plan", planID, err)
		return nil, err
	}

	updated, err := s.mutatePlan(planID, func(tx *store.Tx, plan *models.CoursePlan) error {
		subject, ok := tx.Subject(req.SubjectID)
		if !ok {
			return notFound("subject")
		}
		if plan.HasSubject(subject.ID) {
			return appErrors.Clone(appErrors.ErrAlreadyPresent, "")
		}
		plan.Subjects = append(plan.Subjects, subject.Clone())
		return nil
	})
	s.reporter.report(ctx, "plan.subject.add", "course_plan", planID, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveSubject drops a subject from the plan. Removing an absent subject is a no-op.
func (s *CoursePlanService) RemoveSubject(ctx context.Context, planID, subjectID string) (*models.CoursePlan, error) {
	updated, err := s.mutatePlan(planID, func(tx *store.Tx, plan *models.CoursePlan) error {
		kept := plan.Subjects[:0]
		for _, subject := range plan.Subjects {
			if subject.ID != subjectID {
				kept = append(kept, subject)
			}
		}
		plan.Subjects = kept
		return nil
	})
	s.reporter.report(ctx, "plan.subject.remove", "course_plan", planID, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddAllMatching adds every catalog subject for the plan's branch and semester that
// also matches the request filters, skipping those already present. It returns the
// number actually added.
func (s *CoursePlanService) AddAllMatching(ctx context.Context, planID string, req dto.BulkAddPlanSubjectsRequest) (int, error) {
	if err := validatePayload(s.validator, req, "invalid bulk add payload"); err != nil {
		s.reporter.report(ctx, "plan.subject.bulk_add", "course_plan", planID, err)
		return 0, err
	}

	added := 0
	_, err := s.mutatePlan(planID, func(tx *store.Tx, plan *models.CoursePlan) error {
		filter := models.SubjectFilter{
			Branch:   plan.Branch,
			Semester: plan.Semester,
			Type:     models.SubjectType(req.Type),
			Search:   strings.TrimSpace(req.Search),
		}
		for _, subject := range tx.Subjects() {
			if !matchesSubjectFilter(subject, filter) || plan.HasSubject(subject.ID) {
				continue
			}
			plan.Subjects = append(plan.Subjects, subject.Clone())
			added++
		}
		return nil
	})
	s.reporter.report(ctx, "plan.subject.bulk_add", "course_plan", planID, err)
	if err != nil {
		return 0, err
	}
	return added, nil
}

// ClearSubjects empties the plan's subject set.
func (s *CoursePlanService) ClearSubjects(ctx context.Context, planID string) (*models.CoursePlan, error) {
	updated, err := s.mutatePlan(planID, func(tx *store.Tx, plan *models.CoursePlan) error {
		plan.Subjects = []models.Subject{}
		return nil
	})
	s.reporter.report(ctx, "plan.subject.clear", "course_plan", planID, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Summary derives counts and credits from the plan's live subject set.
func (s *CoursePlanService) Summary(ctx context.Context, planID string) (*models.CoursePlanSummary, error) {
	var summary models.CoursePlanSummary
	err := s.store.Read(func(tx *store.Tx) error {
		plan, ok := tx.Plan(planID)
		if !ok {
			return notFound("course plan")
		}
		summary = summarize(plan)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// mutatePlan runs fn on the live plan inside one write, refusing archived plans,
// recomputes the aggregate and returns a copy of the result.
func (s *CoursePlanService) mutatePlan(planID string, fn func(tx *store.Tx, plan *models.CoursePlan) error) (*models.CoursePlan, error) {
	var result *models.CoursePlan
	err := s.store.Write(func(tx *store.Tx) error {
		plan, ok := tx.Plan(planID)
		if !ok {
			return notFound("course plan")
		}
		if plan.Status == models.CoursePlanStatusArchived {
			return appErrors.Clone(appErrors.ErrPlanArchived, "")
		}
		if err := fn(tx, plan); err != nil {
			return err
		}
		recompute(plan)
		tx.PutPlan(plan)
		result = plan.Clone()
		return nil
	})
	return result, err
}

func recompute(plan *models.CoursePlan) {
	plan.TotalCredits = summarize(plan).TotalCredits
}

func summarize(plan *models.CoursePlan) models.CoursePlanSummary {
	summary := models.CoursePlanSummary{PlanID: plan.ID, SubjectCount: len(plan.Subjects)}
	for _, subject := range plan.Subjects {
		summary.TotalCredits += subject.Credits
		switch subject.Type {
		case models.SubjectTypeCore:
			summary.CoreCount++
		case models.SubjectTypeElective:
			summary.ElectiveCount++
		case models.SubjectTypeGeneral:
			summary.GeneralCount++
		}
	}
	return summary
}
