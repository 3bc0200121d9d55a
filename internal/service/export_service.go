package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/univ-portal-api/internal/models"
	"github.com/noah-isme/univ-portal-api/internal/store"
	appErrors "github.com/noah-isme/univ-portal-api/pkg/errors"
	"github.com/noah-isme/univ-portal-api/pkg/export"
)

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders course plans and the exam slot roster as CSV or PDF.
type ExportService struct {
	store  *store.Store
	csv    renderer
	pdf    renderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// default exporters.
func NewExportService(st *store.Store, csv, pdf renderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{store: st, csv: csv, pdf: pdf, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// CoursePlan renders the plan's subjects with credit totals.
func (s *ExportService) CoursePlan(ctx context.Context, planID, format string) (*ExportFile, error) {
	var dataset export.Dataset
	var name string
	err := s.store.Read(func(tx *store.Tx) error {
		plan, ok := tx.Plan(planID)
		if !ok {
			return notFound("course plan")
		}
		dataset = coursePlanDataset(plan)
		name = "course_plan_" + sanitizeFilename(plan.Branch) + "_sem" + strconv.Itoa(plan.Semester)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.render(dataset, name, format)
}

// ExamSlots renders every slot with the exam bound to it, if any.
func (s *ExportService) ExamSlots(ctx context.Context, format string) (*ExportFile, error) {
	dataset := export.Dataset{
		Title:   "Exam slots",
		Headers: []string{"Date", "Start", "End", "Location", "Capacity", "Status", "Exam"},
	}
	_ = s.store.Read(func(tx *store.Tx) error {
		free := 0
		for _, slot := range tx.Slots() {
			status := "UNAVAILABLE"
			exam := ""
			switch {
			case slot.Occupied():
				status = "OCCUPIED"
				if bound, ok := tx.Exam(*slot.ExamID); ok {
					exam = bound.CourseCode + " " + string(bound.ExamType)
				}
			case slot.IsAvailable:
				status = "AVAILABLE"
				free++
			}
			dataset.Rows = append(dataset.Rows, []string{
				slot.Date, slot.StartTime, slot.EndTime, slot.Location,
				strconv.Itoa(slot.Capacity), status, exam,
			})
		}
		dataset.Summary = []export.SummaryLine{
			{Label: "Slots", Value: strconv.Itoa(len(dataset.Rows))},
			{Label: "Available", Value: strconv.Itoa(free)},
		}
		return nil
	})
	return s.render(dataset, "exam_slots", format)
}

func (s *ExportService) render(dataset export.Dataset, name, rawFormat string) (*ExportFile, error) {
	format, err := export.ParseFormat(strings.ToLower(strings.TrimSpace(rawFormat)))
	if err != nil {
		return nil, validationError(err.Error())
	}
	out := s.csv
	if format == export.FormatPDF {
		out = s.pdf
	}
	payload, err := out.Render(dataset)
	if err != nil {
		s.logger.Error("render export failed", zap.String("name", name), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("%s_%s.%s", name, s.now().Format("20060102_150405"), format),
		ContentType: format.ContentType(),
		Payload:     payload,
	}, nil
}

func coursePlanDataset(plan *models.CoursePlan) export.Dataset {
	summary := summarize(plan)
	dataset := export.Dataset{
		Title:   fmt.Sprintf("%s (%s, semester %d)", plan.Name, plan.Branch, plan.Semester),
		Headers: []string{"Code", "Name", "Type", "Credits"},
		Summary: []export.SummaryLine{
			{Label: "Subjects", Value: strconv.Itoa(summary.SubjectCount)},
			{Label: "Core", Value: strconv.Itoa(summary.CoreCount)},
			{Label: "Elective", Value: strconv.Itoa(summary.ElectiveCount)},
			{Label: "General", Value: strconv.Itoa(summary.GeneralCount)},
			{Label: "Total credits", Value: strconv.Itoa(summary.TotalCredits)},
		},
	}
	for _, subject := range plan.Subjects {
		dataset.Rows = append(dataset.Rows, []string{subject.Code, subject.Name, string(subject.Type), strconv.Itoa(subject.Credits)})
	}
	return dataset
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := strings.ToLower(replacer.Replace(raw))
	if len(result) > 60 {
		return result[:60]
	}
	return result
}
