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

// TeacherHandler wires teacher and allocation services to HTTP routes.
type TeacherHandler struct {
	teachers    *service.TeacherService
	allocations *service.AllocationService
}

// NewTeacherHandler constructs a new TeacherHandler.
func NewTeacherHandler(teachers *service.TeacherService, allocations *service.AllocationService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers, allocations: allocations}
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Param search query string false "Search by name or email"
// @Param department query string false "Filter by department"
// @Param status query string false "ACTIVE or INACTIVE"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	filter := models.TeacherFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		Department: strings.TrimSpace(c.Query("department")),
		Status:     models.TeacherStatus(strings.ToUpper(c.Query("status"))),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "limit", 20),
	}
	teachers, pagination, err := h.teachers.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, pagination)
}

// Get godoc
// @Summary Get teacher detail with allocations
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	teacher, err := h.teachers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Create godoc
// @Summary Create teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body dto.CreateTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Router /teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	var req dto.CreateTeacherRequest
	if !bindJSON(c, &req, "invalid teacher payload") {
		return
	}
	teacher, err := h.teachers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// Update godoc
// @Summary Update teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body dto.UpdateTeacherRequest true "Teacher payload"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [put]
func (h *TeacherHandler) Update(c *gin.Context) {
	var req dto.UpdateTeacherRequest
	if !bindJSON(c, &req, "invalid teacher payload") {
		return
	}
	teacher, err := h.teachers.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// SetStatus godoc
// @Summary Activate or deactivate teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body dto.SetTeacherStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/status [patch]
func (h *TeacherHandler) SetStatus(c *gin.Context) {
	var req dto.SetTeacherStatusRequest
	if !bindJSON(c, &req, "invalid teacher status") {
		return
	}
	teacher, err := h.teachers.SetStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// ListAllocations godoc
// @Summary List teacher allocations
// @Tags Allocations
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/allocations [get]
func (h *TeacherHandler) ListAllocations(c *gin.Context) {
	details, err := h.allocations.ListAllocations(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// Allocate godoc
// @Summary Allocate subject to teacher
// @Tags Allocations
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body dto.AllocateSubjectRequest true "Allocation payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /teachers/{id}/allocations [post]
func (h *TeacherHandler) Allocate(c *gin.Context) {
	var req dto.AllocateSubjectRequest
	if !bindJSON(c, &req, "invalid allocation payload") {
		return
	}
	detail, err := h.allocations.Allocate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

// Deallocate godoc
// @Summary Remove subject allocation
// @Tags Allocations
// @Param id path string true "Teacher ID"
// @Param subjectId path string true "Subject ID"
// @Success 204
// @Router /teachers/{id}/allocations/{subjectId} [delete]
func (h *TeacherHandler) Deallocate(c *gin.Context) {
	if err := h.allocations.Deallocate(c.Request.Context(), c.Param("id"), c.Param("subjectId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
