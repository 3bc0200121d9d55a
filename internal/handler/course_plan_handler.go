package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univ-portal-api/internal/dto"
	"github.com/noah-isme/univ-portal-api/internal/models"
	"github.com/noah-isme/univ-portal-api/internal/service"
	"github.com/noah-isme/univ-portal-api/pkg/response"
)

// CoursePlanHandler exposes course plan aggregation.
type CoursePlanHandler struct {
	plans   *service.CoursePlanService
	exports *service.ExportService
}

// NewCoursePlanHandler constructs a CoursePlanHandler.
func NewCoursePlanHandler(plans *service.CoursePlanService, exports *service.ExportService) *CoursePlanHandler {
	return &CoursePlanHandler{plans: plans, exports: exports}
}

// List godoc
// @Summary List course plans
// @Tags Course Plans
// @Produce json
// @Param branch query string false "Branch"
// @Param semester query int false "Semester"
// @Param status query string false "ACTIVE, DRAFT or ARCHIVED"
// @Success 200 {object} response.Envelope
// @Router /course-plans [get]
func (h *CoursePlanHandler) List(c *gin.Context) {
	filter := models.CoursePlanFilter{
		Branch:   strings.TrimSpace(c.Query("branch")),
		Semester: queryInt(c, "semester", 0),
		Status:   models.CoursePlanStatus(strings.ToUpper(c.Query("status"))),
	}
	plans, err := h.plans.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans, nil)
}

// Get godoc
// @Summary Get course plan
// @Tags Course Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /course-plans/{id} [get]
func (h *CoursePlanHandler) Get(c *gin.Context) {
	plan, err := h.plans.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Create godoc
// @Summary Create course plan
// @Tags Course Plans
// @Accept json
// @Produce json
// @Param payload body dto.CreateCoursePlanRequest true "Plan payload"
// @Success 201 {object} response.Envelope
// @Router /course-plans [post]
func (h *CoursePlanHandler) Create(c *gin.Context) {
	var req dto.CreateCoursePlanRequest
	if !bindJSON(c, &req, "invalid course plan payload") {
		return
	}
	plan, err := h.plans.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// Update godoc
// @Summary Update course plan
// @Description Changing branch or semester clears the subject list.
// @Tags Course Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body dto.UpdateCoursePlanRequest true "Plan payload"
// @Success 200 {object} response.Envelope
// @Router /course-plans/{id} [put]
func (h *CoursePlanHandler) Update(c *gin.Context) {
	var req dto.UpdateCoursePlanRequest
	if !bindJSON(c, &req, "invalid course plan payload") {
		return
	}
	plan, err := h.plans.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// AddSubject godoc
// @Summary Add subject to plan
// @Tags Course Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body dto.AddPlanSubjectRequest true "Subject reference"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /course-plans/{id}/subjects [post]
func (h *CoursePlanHandler) AddSubject(c *gin.Context) {
	var req dto.AddPlanSubjectRequest
	if !bindJSON(c, &req, "invalid plan subject payload") {
		return
	}
	plan, err := h.plans.AddSubject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// RemoveSubject godoc
// @Summary Remove subject from plan
// @Tags Course Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Param subjectId path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /course-plans/{id}/subjects/{subjectId} [delete]
func (h *CoursePlanHandler) RemoveSubject(c *gin.Context) {
	plan, err := h.plans.RemoveSubject(c.Request.Context(), c.Param("id"), c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// BulkAdd godoc
// @Summary Add every matching catalog subject
// @Tags Course Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body dto.BulkAddPlanSubjectsRequest false "Optional filters"
// @Success 200 {object} response.Envelope
// @Router /course-plans/{id}/subjects/bulk [post]
func (h *CoursePlanHandler) BulkAdd(c *gin.Context) {
	var req dto.BulkAddPlanSubjectsRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req, "invalid bulk add payload") {
		return
	}
	added, err := h.plans.AddAllMatching(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.BulkAddResult{Added: added}, nil)
}

// Clear godoc
// @Summary Remove all subjects from plan
// @Tags Course Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /course-plans/{id}/subjects [delete]
func (h *CoursePlanHandler) Clear(c *gin.Context) {
	plan, err := h.plans.ClearSubjects(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Summary godoc
// @Summary Plan subject counts and credit total
// @Tags Course Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /course-plans/{id}/summary [get]
func (h *CoursePlanHandler) Summary(c *gin.Context) {
	summary, err := h.plans.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Export godoc
// @Summary Download course plan
// @Tags Course Plans
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Plan ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /course-plans/{id}/export [get]
func (h *CoursePlanHandler) Export(c *gin.Context) {
	file, err := h.exports.CoursePlan(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
