package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-portal-api/internal/dto"
	"github.com/noah-isme/univ-portal-api/internal/models"
	"github.com/noah-isme/univ-portal-api/internal/store"
	appErrors "github.com/noah-isme/univ-portal-api/pkg/errors"
)

func newAllocationServiceForTest(t *testing.T, opts AllocationOptions) (*AllocationService, *store.Store, *recordingNotifier) {
	t.Helper()
	st := newTestStore()
	notifier := &recordingNotifier{}
	svc := NewAllocationService(st, opts, notifier, NewMetricsService(), nil, zap.NewNop())
	return svc, st, notifier
}

func teacherSnapshot(t *testing.T, st *store.Store, id string) *models.Teacher {
	t.Helper()
	var teacher *models.Teacher
	require.NoError(t, st.Read(func(tx *store.Tx) error {
		row, ok := tx.Teacher(id)
		require.True(t, ok)
		teacher = row.Clone()
		return nil
	}))
	return teacher
}

func TestAllocationCapacityBoundary(t *testing.T) {
	svc, st, notifier := newAllocationServiceForTest(t, AllocationOptions{})
	ctx := context.Background()
	seedTeacher(t, st, "t1", 2, models.TeacherStatusActive)
	seedSubject(t, st, "s1", "CSE", 3, 4, models.SubjectTypeCore)
	seedSubject(t, st, "s2", "CSE", 3, 3, models.SubjectTypeCore)
	seedSubject(t, st, "s3", "CSE", 3, 3, models.SubjectTypeElective)

	detail, err := svc.Allocate(ctx, "t1", dto.AllocateSubjectRequest{SubjectID: "s1", EnrolledStudents: 60})
	require.NoError(t, err)
	assert.Equal(t, "C-s1", detail.SubjectCode)
	assert.Equal(t, 4, detail.Credits)
	assert.Equal(t, 60, detail.EnrolledStudents)

	_, err = svc.Allocate(ctx, "t1", dto.AllocateSubjectRequest{SubjectID: "s2"})
	require.NoError(t, err)
	assert.Equal(t, 2, teacherSnapshot(t, st, "t1").CurrentSubjects)

	_, err = svc.Allocate(ctx, "t1", dto.AllocateSubjectRequest{SubjectID: "s3"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrCapacityExceeded)

	teacher := teacherSnapshot(t, st, "t1")
	assert.Equal(t, 2, teacher.CurrentSubjects)
	assert.Len(t, teacher.Allocations, 2)

	last := notifier.last(t)
	assert.Equal(t, "allocation.create", last.Operation)
	assert.False(t, last.Success)
	assert.NotEmpty(t, last.Reason)
}

func TestAllocationCapacityCheckedBeforeDuplicate(t *testing.T) {
	svc, st, _ := newAllocationServiceForTest(t, AllocationOptions{})
	ctx := context.Background()
	seedTeacher(t, st, "t1", 1, models.TeacherStatusActive)
	seedSubject(t, st, "s1", "CSE", 3, 4, models.SubjectTypeCore)

	_, err := svc.Allocate(ctx, "t1", dto.AllocateSubjectRequest{SubjectID: "s1"})
	require.NoError(t, err)

	_, err = svc.Allocate(ctx, "t1", dto.AllocateSubjectRequest{SubjectID: "s1"})
	assert.ErrorIs(t, err, appErrors.ErrCapacityExceeded)
}

func TestAllocationDuplicateRejected(t *testing.T) {
	svc, st, _ := newAllocationServiceForTest(t, AllocationOptions{})
	ctx := context.Background()
	seedTeacher(t, st, "t1", 3, models.TeacherStatusActive)
	seedSubject(t, st, "s1", "CSE", 3, 4, models.SubjectTypeCore)

	_, err := svc.Allocate(ctx, "t1", dto.AllocateSubjectRequest{SubjectID: "s1"})
	require.NoError(t, err)

	_, err = svc.Allocate(ctx, "t1", dto.AllocateSubjectRequest{SubjectID: "s1"})
	assert.ErrorIs(t, err, appErrors.ErrDuplicateAssignment)
	assert.Equal(t, 1, teacherSnapshot(t, st, "t1").CurrentSubjects)
}

func TestAllocationMissingReferences(t *testing.T) {
	svc, st, _ := newAllocationServiceForTest(t, AllocationOptions{})
	ctx := context.Background()
	seedTeacher(t, st, "t1", 3, models.TeacherStatusActive)

	_, err := svc.Allocate(ctx, "ghost", dto.AllocateSubjectRequest{SubjectID: "s1"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Allocate(ctx, "t1", dto.AllocateSubjectRequest{SubjectID: "missing"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Allocate(ctx, "t1", dto.AllocateSubjectRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAllocationInactiveTeacher(t *testing.T) {
	svc, st, _ := newAllocationServiceForTest(t, AllocationOptions{})
	seedTeacher(t, st, "t1", 3, models.TeacherStatusInactive)
	seedSubject(t, st, "s1", "CSE", 3, 4, models.SubjectTypeCore)

	_, err := svc.Allocate(context.Background(), "t1", dto.AllocateSubjectRequest{SubjectID: "s1"})
	assert.ErrorIs(t, err, appErrors.ErrTeacherInactive)
}

func TestDeallocateTwiceAndReallocate(t *testing.T) {
	svc, st, _ := newAllocationServiceForTest(t, AllocationOptions{})
	ctx := context.Background()
	seedTeacher(t, st, "t1", 1, models.TeacherStatusActive)
	seedSubject(t, st, "s1", "CSE", 3, 4, models.SubjectTypeCore)
	seedSubject(t, st, "s2", "CSE", 3, 3, models.SubjectTypeCore)

	_, err := svc.Allocate(ctx, "t1", dto.AllocateSubjectRequest{SubjectID: "s1"})
	require.NoError(t, err)

	require.NoError(t, svc.Deallocate(ctx, "t1", "s1"))
	assert.Equal(t, 0, teacherSnapshot(t, st, "t1").CurrentSubjects)

	err = svc.Deallocate(ctx, "t1", "s1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, 0, teacherSnapshot(t, st, "t1").CurrentSubjects)

	_, err = svc.Allocate(ctx, "t1", dto.AllocateSubjectRequest{SubjectID: "s2"})
	require.NoError(t, err)
	teacher := teacherSnapshot(t, st, "t1")
	assert.Equal(t, 1, teacher.CurrentSubjects)
	assert.Equal(t, "s2", teacher.Allocations[0].SubjectID)
}

func TestAllocationCoTeachingAndExclusiveMode(t *testing.T) {
	ctx := context.Background()

	shared, st, _ := newAllocationServiceForTest(t, AllocationOptions{})
	seedTeacher(t, st, "t1", 2, models.TeacherStatusActive)
	seedTeacher(t, st, "t2", 2, models.TeacherStatusActive)
	seedSubject(t, st, "s1", "CSE", 3, 4, models.SubjectTypeCore)
	_, err := shared.Allocate(ctx, "t1", dto.AllocateSubjectRequest{SubjectID: "s1"})
	require.NoError(t, err)
	_, err = shared.Allocate(ctx, "t2", dto.AllocateSubjectRequest{SubjectID: "s1"})
	require.NoError(t, err)

	exclusive, st2, _ := newAllocationServiceForTest(t, AllocationOptions{ExclusiveSubjects: true})
	seedTeacher(t, st2, "t1", 2, models.TeacherStatusActive)
	seedTeacher(t, st2, "t2", 2, models.TeacherStatusActive)
	seedSubject(t, st2, "s1", "CSE", 3, 4, models.SubjectTypeCore)
	_, err = exclusive.Allocate(ctx, "t1", dto.AllocateSubjectRequest{SubjectID: "s1"})
	require.NoError(t, err)
	_, err = exclusive.Allocate(ctx, "t2", dto.AllocateSubjectRequest{SubjectID: "s1"})
	assert.ErrorIs(t, err, appErrors.ErrSubjectAllocated)
	assert.Equal(t, 0, teacherSnapshot(t, st2, "t2").CurrentSubjects)
}

func TestListAvailableExcludesHeldSubjects(t *testing.T) {
	svc, st, _ := newAllocationServiceForTest(t, AllocationOptions{})
	ctx := context.Background()
	seedTeacher(t, st, "t1", 3, models.TeacherStatusActive)
	seedSubject(t, st, "s1", "CSE", 3, 4, models.SubjectTypeCore)
	seedSubject(t, st, "s2", "CSE", 3, 3, models.SubjectTypeElective)
	seedSubject(t, st, "s3", "ECE", 3, 3, models.SubjectTypeCore)

	_, err := svc.Allocate(ctx, "t1", dto.AllocateSubjectRequest{SubjectID: "s1"})
	require.NoError(t, err)

	subjects, err := svc.ListAvailable(ctx, dto.AvailableSubjectsQuery{TeacherID: "t1", Branch: "cse", Semester: 3})
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "s2", subjects[0].ID)

	all, err := svc.ListAvailable(ctx, dto.AvailableSubjectsQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.ListAvailable(ctx, dto.AvailableSubjectsQuery{TeacherID: "ghost"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestListAllocationsJoinsSubjectData(t *testing.T) {
	svc, st, _ := newAllocationServiceForTest(t, AllocationOptions{})
	ctx := context.Background()
	seedTeacher(t, st, "t1", 3, models.TeacherStatusActive)
	seedSubject(t, st, "s1", "CSE", 3, 4, models.SubjectTypeCore)
	_, err := svc.Allocate(ctx, "t1", dto.AllocateSubjectRequest{SubjectID: "s1"})
	require.NoError(t, err)

	require.NoError(t, st.Write(func(tx *store.Tx) error {
		subject, _ := tx.Subject("s1")
		subject.Name = "Renamed"
		tx.PutSubject(subject)
		return nil
	}))

	details, err := svc.ListAllocations(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Renamed", details[0].SubjectName)
}

func TestConcurrentAllocationsNeverExceedCapacity(t *testing.T) {
	svc, st, _ := newAllocationServiceForTest(t, AllocationOptions{})
	ctx := context.Background()
	seedTeacher(t, st, "t1", 3, models.TeacherStatusActive)
	ids := []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"}
	for _, id := range ids {
		seedSubject(t, st, id, "CSE", 3, 3, models.SubjectTypeCore)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for _, id := range ids {
		wg.Add(1)
		go func(subjectID string) {
			defer wg.Done()
			if _, err := svc.Allocate(ctx, "t1", dto.AllocateSubjectRequest{SubjectID: subjectID}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 3, teacherSnapshot(t, st, "t1").CurrentSubjects)
}
