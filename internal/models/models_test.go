package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExamStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to ExamStatus
		allowed  bool
	}{
		{ExamStatusScheduled, ExamStatusOngoing, true},
		{ExamStatusScheduled, ExamStatusCancelled, true},
		{ExamStatusScheduled, ExamStatusCompleted, false},
		{ExamStatusOngoing, ExamStatusCompleted, true},
		{ExamStatusOngoing, ExamStatusCancelled, true},
		{ExamStatusOngoing, ExamStatusScheduled, false},
		{ExamStatusCompleted, ExamStatusCancelled, false},
		{ExamStatusCancelled, ExamStatusScheduled, false},
		{ExamStatusCompleted, ExamStatusCompleted, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTeacherAllocationCounter(t *testing.T) {
	teacher := &Teacher{ID: "t-1", MaxSubjects: 3, Status: TeacherStatusActive}

	teacher.AddAllocation(Allocation{SubjectID: "s-1"})
	teacher.AddAllocation(Allocation{SubjectID: "s-2"})
	assert.Equal(t, 2, teacher.CurrentSubjects)
	assert.True(t, teacher.HasSubject("s-2"))

	assert.True(t, teacher.RemoveAllocation("s-1"))
	assert.False(t, teacher.RemoveAllocation("s-1"))
	assert.Equal(t, 1, teacher.CurrentSubjects)
	assert.Len(t, teacher.Allocations, 1)
}

func TestTeacherCloneIsolatesAllocations(t *testing.T) {
	teacher := &Teacher{ID: "t-1"}
	teacher.AddAllocation(Allocation{SubjectID: "s-1"})

	cp := teacher.Clone()
	cp.AddAllocation(Allocation{SubjectID: "s-2"})

	assert.Len(t, teacher.Allocations, 1)
	assert.Equal(t, 1, teacher.CurrentSubjects)
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, SubjectTypeElective.Valid())
	assert.False(t, SubjectType("LAB").Valid())
	assert.True(t, CoursePlanStatusArchived.Valid())
	assert.False(t, TeacherStatus("ON_LEAVE").Valid())
	assert.True(t, ExamTypePractical.Valid())
}
