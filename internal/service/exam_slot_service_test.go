package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-portal-api/internal/dto"
	"github.com/noah-isme/univ-portal-api/internal/models"
	appErrors "github.com/noah-isme/univ-portal-api/pkg/errors"
)

func newScheduleServiceForTest(t *testing.T, opts ExamScheduleOptions) (*ExamScheduleService, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	return NewExamScheduleService(newTestStore(), opts, notifier, NewMetricsService(), nil, zap.NewNop()), notifier
}

func slotRequest(date, start, end, location string) dto.CreateExamSlotRequest {
	return dto.CreateExamSlotRequest{Date: date, StartTime: start, EndTime: end, Location: location, Capacity: 40}
}

func createTestExam(t *testing.T, svc *ExamScheduleService, code string) *models.Exam {
	t.Helper()
	exam, err := svc.CreateExam(context.Background(), dto.CreateExamRequest{
		Course:          "Course " + code,
		CourseCode:      code,
		Semester:        3,
		Branch:          "CSE",
		ExamType:        "MIDTERM",
		Date:            "2024-10-14",
		Time:            "09:00",
		DurationMinutes: 120,
		Location:        "Hall A",
		MaxMarks:        100,
	})
	require.NoError(t, err)
	return exam
}

func TestSlotLifecycle(t *testing.T) {
	svc, notifier := newScheduleServiceForTest(t, ExamScheduleOptions{})
	ctx := context.Background()

	slot, err := svc.CreateSlot(ctx, slotRequest("2024-10-14", "09:00", "12:00", "Hall A"))
	require.NoError(t, err)
	assert.True(t, slot.IsAvailable)
	assert.Nil(t, slot.ExamID)

	exam := createTestExam(t, svc, "CS201")

	bound, err := svc.BindExam(ctx, slot.ID, dto.BindExamRequest{ExamID: exam.ID})
	require.NoError(t, err)
	require.NotNil(t, bound.ExamID)
	assert.Equal(t, exam.ID, *bound.ExamID)
	assert.False(t, bound.IsAvailable)

	_, err = svc.ToggleAvailability(ctx, slot.ID)
	assert.ErrorIs(t, err, appErrors.ErrSlotOccupied)

	err = svc.DeleteSlot(ctx, slot.ID)
	assert.ErrorIs(t, err, appErrors.ErrSlotOccupied)

	vacated, err := svc.UnbindExam(ctx, slot.ID)
	require.NoError(t, err)
	assert.Nil(t, vacated.ExamID)
	assert.True(t, vacated.IsAvailable)

	toggled, err := svc.ToggleAvailability(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsAvailable)
	toggled, err = svc.ToggleAvailability(ctx, slot.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsAvailable)

	require.NoError(t, svc.DeleteSlot(ctx, slot.ID))
	_, err = svc.GetSlot(ctx, slot.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	last := notifier.last(t)
	assert.Equal(t, "slot.delete", last.Operation)
	assert.True(t, last.Success)
}

func TestBindExamIntoOccupiedSlot(t *testing.T) {
	svc, _ := newScheduleServiceForTest(t, ExamScheduleOptions{})
	ctx := context.Background()
	slot, err := svc.CreateSlot(ctx, slotRequest("2024-10-14", "09:00", "12:00", "Hall A"))
	require.NoError(t, err)
	first := createTestExam(t, svc, "CS201")
	second := createTestExam(t, svc, "CS205")

	_, err = svc.BindExam(ctx, slot.ID, dto.BindExamRequest{ExamID: first.ID})
	require.NoError(t, err)

	_, err = svc.BindExam(ctx, slot.ID, dto.BindExamRequest{ExamID: second.ID})
	assert.ErrorIs(t, err, appErrors.ErrSlotOccupied)

	current, err := svc.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, *current.ExamID)
}

func TestUnavailableSlotRefusesDeleteAndBind(t *testing.T) {
	svc, _ := newScheduleServiceForTest(t, ExamScheduleOptions{})
	ctx := context.Background()
	slot, err := svc.CreateSlot(ctx, slotRequest("2024-10-14", "09:00", "12:00", "Hall A"))
	require.NoError(t, err)
	exam := createTestExam(t, svc, "CS201")

	toggled, err := svc.ToggleAvailability(ctx, slot.ID)
	require.NoError(t, err)
	require.False(t, toggled.IsAvailable)
	require.Nil(t, toggled.ExamID)

	err = svc.DeleteSlot(ctx, slot.ID)
	assert.ErrorIs(t, err, appErrors.ErrSlotOccupied)
	_, err = svc.BindExam(ctx, slot.ID, dto.BindExamRequest{ExamID: exam.ID})
	assert.ErrorIs(t, err, appErrors.ErrSlotOccupied)

	current, err := svc.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, current.IsAvailable)
	assert.Nil(t, current.ExamID)

	_, err = svc.ToggleAvailability(ctx, slot.ID)
	require.NoError(t, err)
	_, err = svc.BindExam(ctx, slot.ID, dto.BindExamRequest{ExamID: exam.ID})
	require.NoError(t, err)
}

func TestBindExamAlreadyPlacedElsewhere(t *testing.T) {
	svc, _ := newScheduleServiceForTest(t, ExamScheduleOptions{})
	ctx := context.Background()
	a, err := svc.CreateSlot(ctx, slotRequest("2024-10-14", "09:00", "12:00", "Hall A"))
	require.NoError(t, err)
	b, err := svc.CreateSlot(ctx, slotRequest("2024-10-15", "09:00", "12:00", "Hall A"))
	require.NoError(t, err)
	exam := createTestExam(t, svc, "CS201")

	_, err = svc.BindExam(ctx, a.ID, dto.BindExamRequest{ExamID: exam.ID})
	require.NoError(t, err)
	_, err = svc.BindExam(ctx, b.ID, dto.BindExamRequest{ExamID: exam.ID})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestBindUnknownReferences(t *testing.T) {
	svc, _ := newScheduleServiceForTest(t, ExamScheduleOptions{})
	ctx := context.Background()
	slot, err := svc.CreateSlot(ctx, slotRequest("2024-10-14", "09:00", "12:00", "Hall A"))
	require.NoError(t, err)

	_, err = svc.BindExam(ctx, slot.ID, dto.BindExamRequest{ExamID: "ghost"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	_, err = svc.BindExam(ctx, "ghost", dto.BindExamRequest{ExamID: "ghost"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	_, err = svc.UnbindExam(ctx, "ghost")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestBindUnbindRoundTrip(t *testing.T) {
	svc, _ := newScheduleServiceForTest(t, ExamScheduleOptions{})
	ctx := context.Background()
	slot, err := svc.CreateSlot(ctx, slotRequest("2024-10-14", "09:00", "12:00", "Hall A"))
	require.NoError(t, err)
	exam := createTestExam(t, svc, "CS201")

	for i := 0; i < 3; i++ {
		_, err = svc.BindExam(ctx, slot.ID, dto.BindExamRequest{ExamID: exam.ID})
		require.NoError(t, err)
		_, err = svc.UnbindExam(ctx, slot.ID)
		require.NoError(t, err)
	}
	current, err := svc.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.True(t, current.IsAvailable)
	assert.Nil(t, current.ExamID)
}

func TestUnbindEmptySlotRestoresAvailability(t *testing.T) {
	svc, _ := newScheduleServiceForTest(t, ExamScheduleOptions{})
	ctx := context.Background()
	slot, err := svc.CreateSlot(ctx, slotRequest("2024-10-14", "09:00", "12:00", "Hall A"))
	require.NoError(t, err)
	_, err = svc.ToggleAvailability(ctx, slot.ID)
	require.NoError(t, err)

	vacated, err := svc.UnbindExam(ctx, slot.ID)
	require.NoError(t, err)
	assert.True(t, vacated.IsAvailable)
}

func TestCreateSlotValidation(t *testing.T) {
	svc, _ := newScheduleServiceForTest(t, ExamScheduleOptions{})
	ctx := context.Background()

	_, err := svc.CreateSlot(ctx, slotRequest("2024-10-14", "12:00", "09:00", "Hall A"))
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.CreateSlot(ctx, slotRequest("14/10/2024", "09:00", "12:00", "Hall A"))
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	req := slotRequest("2024-10-14", "09:00", "12:00", "Hall A")
	req.Capacity = 0
	_, err = svc.CreateSlot(ctx, req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestSlotOverlapOption(t *testing.T) {
	ctx := context.Background()

	lenient, _ := newScheduleServiceForTest(t, ExamScheduleOptions{})
	_, err := lenient.CreateSlot(ctx, slotRequest("2024-10-14", "09:00", "12:00", "Hall A"))
	require.NoError(t, err)
	_, err = lenient.CreateSlot(ctx, slotRequest("2024-10-14", "11:00", "13:00", "Hall A"))
	require.NoError(t, err)

	strict, _ := newScheduleServiceForTest(t, ExamScheduleOptions{RejectOverlap: true})
	first, err := strict.CreateSlot(ctx, slotRequest("2024-10-14", "09:00", "12:00", "Hall A"))
	require.NoError(t, err)
	_, err = strict.CreateSlot(ctx, slotRequest("2024-10-14", "11:00", "13:00", "hall a"))
	assert.ErrorIs(t, err, appErrors.ErrSlotConflict)
	_, err = strict.CreateSlot(ctx, slotRequest("2024-10-14", "12:00", "14:00", "Hall A"))
	require.NoError(t, err)
	_, err = strict.CreateSlot(ctx, slotRequest("2024-10-14", "10:00", "11:00", "Hall B"))
	require.NoError(t, err)

	end := "12:30"
	_, err = strict.UpdateSlot(ctx, first.ID, dto.UpdateExamSlotRequest{EndTime: &end})
	assert.ErrorIs(t, err, appErrors.ErrSlotConflict)
}

func TestUpdateSlotKeepsOccupancy(t *testing.T) {
	svc, _ := newScheduleServiceForTest(t, ExamScheduleOptions{})
	ctx := context.Background()
	slot, err := svc.CreateSlot(ctx, slotRequest("2024-10-14", "09:00", "12:00", "Hall A"))
	require.NoError(t, err)
	exam := createTestExam(t, svc, "CS201")
	_, err = svc.BindExam(ctx, slot.ID, dto.BindExamRequest{ExamID: exam.ID})
	require.NoError(t, err)

	location := "Hall C"
	updated, err := svc.UpdateSlot(ctx, slot.ID, dto.UpdateExamSlotRequest{Location: &location})
	require.NoError(t, err)
	assert.Equal(t, "Hall C", updated.Location)
	require.NotNil(t, updated.ExamID)
	assert.False(t, updated.IsAvailable)
}

func TestListSlotsAvailableOnly(t *testing.T) {
	svc, _ := newScheduleServiceForTest(t, ExamScheduleOptions{})
	ctx := context.Background()
	a, err := svc.CreateSlot(ctx, slotRequest("2024-10-14", "09:00", "12:00", "Hall A"))
	require.NoError(t, err)
	_, err = svc.CreateSlot(ctx, slotRequest("2024-10-14", "13:00", "15:00", "Hall A"))
	require.NoError(t, err)
	_, err = svc.ToggleAvailability(ctx, a.ID)
	require.NoError(t, err)

	all, err := svc.ListSlots(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	available, err := svc.ListSlots(ctx, true)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "13:00", available[0].StartTime)
}
