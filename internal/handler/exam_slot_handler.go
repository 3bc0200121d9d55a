package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univ-portal-api/internal/dto"
	"github.com/noah-isme/univ-portal-api/internal/service"
	"github.com/noah-isme/univ-portal-api/pkg/response"
)

// ExamSlotHandler exposes slot scheduling.
type ExamSlotHandler struct {
	schedule *service.ExamScheduleService
	exports  *service.ExportService
}

// NewExamSlotHandler constructs an ExamSlotHandler.
func NewExamSlotHandler(schedule *service.ExamScheduleService, exports *service.ExportService) *ExamSlotHandler {
	return &ExamSlotHandler{schedule: schedule, exports: exports}
}

// List godoc
// @Summary List exam slots
// @Tags Exam Slots
// @Produce json
// @Param available query bool false "Only available slots"
// @Success 200 {object} response.Envelope
// @Router /exam-slots [get]
func (h *ExamSlotHandler) List(c *gin.Context) {
	slots, err := h.schedule.ListSlots(c.Request.Context(), c.Query("available") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Get godoc
// @Summary Get exam slot
// @Tags Exam Slots
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Envelope
// @Router /exam-slots/{id} [get]
func (h *ExamSlotHandler) Get(c *gin.Context) {
	slot, err := h.schedule.GetSlot(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Create godoc
// @Summary Create exam slot
// @Tags Exam Slots
// @Accept json
// @Produce json
// @Param payload body dto.CreateExamSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Router /exam-slots [post]
func (h *ExamSlotHandler) Create(c *gin.Context) {
	var req dto.CreateExamSlotRequest
	if !bindJSON(c, &req, "invalid exam slot payload") {
		return
	}
	slot, err := h.schedule.CreateSlot(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// Update godoc
// @Summary Update exam slot
// @Tags Exam Slots
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param payload body dto.UpdateExamSlotRequest true "Slot payload"
// @Success 200 {object} response.Envelope
// @Router /exam-slots/{id} [put]
func (h *ExamSlotHandler) Update(c *gin.Context) {
	var req dto.UpdateExamSlotRequest
	if !bindJSON(c, &req, "invalid exam slot payload") {
		return
	}
	slot, err := h.schedule.UpdateSlot(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Delete godoc
// @Summary Delete an unoccupied exam slot
// @Tags Exam Slots
// @Param id path string true "Slot ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /exam-slots/{id} [delete]
func (h *ExamSlotHandler) Delete(c *gin.Context) {
	if err := h.schedule.DeleteSlot(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Bind godoc
// @Summary Bind an exam to a slot
// @Tags Exam Slots
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param payload body dto.BindExamRequest true "Exam reference"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /exam-slots/{id}/exam [post]
func (h *ExamSlotHandler) Bind(c *gin.Context) {
	var req dto.BindExamRequest
	if !bindJSON(c, &req, "invalid bind payload") {
		return
	}
	slot, err := h.schedule.BindExam(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Unbind godoc
// @Summary Remove the exam from a slot
// @Tags Exam Slots
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Envelope
// @Router /exam-slots/{id}/exam [delete]
func (h *ExamSlotHandler) Unbind(c *gin.Context) {
	slot, err := h.schedule.UnbindExam(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Toggle godoc
// @Summary Flip availability of an unoccupied slot
// @Tags Exam Slots
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Envelope
// @Router /exam-slots/{id}/toggle [post]
func (h *ExamSlotHandler) Toggle(c *gin.Context) {
	slot, err := h.schedule.ToggleAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Export godoc
// @Summary Download the slot roster
// @Tags Exam Slots
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /exam-slots/export [get]
func (h *ExamSlotHandler) Export(c *gin.Context) {
	file, err := h.exports.ExamSlots(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
