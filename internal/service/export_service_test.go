package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univ-portal-api/internal/dto"
	appErrors "github.com/noah-isme/univ-portal-api/pkg/errors"
)

func TestExportCoursePlanCSV(t *testing.T) {
	plans, st := newCoursePlanServiceForTest(t)
	seedSemester(t, st)
	ctx := context.Background()
	plan := createPlan(t, plans)
	_, err := plans.AddAllMatching(ctx, plan.ID, dto.BulkAddPlanSubjectsRequest{})
	require.NoError(t, err)

	file, err := NewExportService(st, nil, nil, nil).CoursePlan(ctx, plan.ID, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasPrefix(file.Filename, "course_plan_cse_sem3_"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	body := string(file.Payload)
	assert.True(t, strings.HasPrefix(body, "Code,Name,Type,Credits\n"))
	assert.Contains(t, body, "C-core-1,Subject core-1,CORE,4\n")
	assert.Contains(t, body, "Total credits,22\n")
}

func TestExportExamSlotsPDF(t *testing.T) {
	schedule, _ := newScheduleServiceForTest(t, ExamScheduleOptions{})
	ctx := context.Background()
	slot, err := schedule.CreateSlot(ctx, slotRequest("2024-10-14", "09:00", "12:00", "Hall A"))
	require.NoError(t, err)
	exam := createTestExam(t, schedule, "CS201")
	_, err = schedule.BindExam(ctx, slot.ID, dto.BindExamRequest{ExamID: exam.ID})
	require.NoError(t, err)

	exports := NewExportService(schedule.store, nil, nil, nil)
	file, err := exports.ExamSlots(ctx, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Payload, []byte("%PDF")))

	csvFile, err := exports.ExamSlots(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, string(csvFile.Payload), "OCCUPIED,CS201 MIDTERM")
}

func TestExportRejectsUnknownFormatAndPlan(t *testing.T) {
	exports := NewExportService(newTestStore(), nil, nil, nil)
	_, err := exports.ExamSlots(context.Background(), "xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = exports.CoursePlan(context.Background(), "ghost", "csv")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
