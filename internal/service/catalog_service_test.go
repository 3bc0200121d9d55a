package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-portal-api/internal/models"
	appErrors "github.com/noah-isme/univ-portal-api/pkg/errors"
)

type stubTeacherSource struct {
	teachers    []models.Teacher
	allocations []models.Allocation
	err         error
}

func (s stubTeacherSource) ListAll(ctx context.Context) ([]models.Teacher, error) {
	return s.teachers, s.err
}

func (s stubTeacherSource) ListAllocations(ctx context.Context) ([]models.Allocation, error) {
	return s.allocations, nil
}

type stubSubjectSource []models.Subject

func (s stubSubjectSource) ListAll(ctx context.Context) ([]models.Subject, error) {
	return s, nil
}

func TestCatalogHydrateSkipsInvalidAllocations(t *testing.T) {
	st := newTestStore()
	teachers := stubTeacherSource{
		teachers: []models.Teacher{
			{ID: "t1", FullName: "Ada", Email: "ada@univ.test", MaxSubjects: 1, Status: models.TeacherStatusActive},
			{ID: "t2", FullName: "Grace", Email: "grace@univ.test", MaxSubjects: 2, Status: "ON_LEAVE"},
		},
		allocations: []models.Allocation{
			{ID: "a1", TeacherID: "t1", SubjectID: "s1"},
			{ID: "a2", TeacherID: "t1", SubjectID: "s2"},
			{ID: "a3", TeacherID: "t2", SubjectID: "s1"},
			{ID: "a4", TeacherID: "t2", SubjectID: "s1"},
			{ID: "a5", TeacherID: "t9", SubjectID: "s1"},
			{ID: "a6", TeacherID: "t2", SubjectID: "s9"},
		},
	}
	subjects := stubSubjectSource{
		{ID: "s1", Code: "CS201", Name: "Data Structures", Credits: 4, Type: models.SubjectTypeCore},
		{ID: "s2", Code: "CS205", Name: "Discrete Mathematics", Credits: 3, Type: models.SubjectTypeCore},
	}

	report, err := NewCatalogService(st, teachers, subjects, zap.NewNop()).Hydrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Teachers)
	assert.Equal(t, 2, report.Subjects)
	assert.Equal(t, 2, report.Allocations)
	assert.Equal(t, 4, report.SkippedAllocations)

	ada := teacherSnapshot(t, st, "t1")
	assert.Equal(t, 1, ada.CurrentSubjects)
	grace := teacherSnapshot(t, st, "t2")
	assert.Equal(t, models.TeacherStatusInactive, grace.Status)
	assert.Equal(t, 1, grace.CurrentSubjects)
}

func TestCatalogHydrateSurfacesLoadErrors(t *testing.T) {
	teachers := stubTeacherSource{err: errors.New("connection reset")}
	_, err := NewCatalogService(newTestStore(), teachers, stubSubjectSource{}, nil).Hydrate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}
