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

// SubjectHandler serves the subject catalog.
type SubjectHandler struct {
	subjects    *service.SubjectService
	allocations *service.AllocationService
}

// NewSubjectHandler constructs a SubjectHandler.
func NewSubjectHandler(subjects *service.SubjectService, allocations *service.AllocationService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects, allocations: allocations}
}

// List godoc
// @Summary List subjects
// @Tags Subjects
// @Produce json
// @Param branch query string false "Branch"
// @Param semester query int false "Semester"
// @Param type query string false "CORE, ELECTIVE or GENERAL"
// @Param status query string false "ACTIVE, DRAFT or INACTIVE"
// @Param search query string false "Search by code or name"
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	filter := models.SubjectFilter{
		Branch:   strings.TrimSpace(c.Query("branch")),
		Semester: queryInt(c, "semester", 0),
		Type:     models.SubjectType(strings.ToUpper(c.Query("type"))),
		Status:   models.SubjectStatus(strings.ToUpper(c.Query("status"))),
		Search:   strings.TrimSpace(c.Query("search")),
	}
	subjects, err := h.subjects.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// Available godoc
// @Summary List subjects a teacher does not hold yet
// @Tags Subjects
// @Produce json
// @Param teacher_id query string false "Teacher ID"
// @Param branch query string false "Branch"
// @Param semester query int false "Semester"
// @Param search query string false "Search by code or name"
// @Success 200 {object} response.Envelope
// @Router /subjects/available [get]
func (h *SubjectHandler) Available(c *gin.Context) {
	query := dto.AvailableSubjectsQuery{
		TeacherID: strings.TrimSpace(c.Query("teacher_id")),
		Branch:    c.Query("branch"),
		Semester:  queryInt(c, "semester", 0),
		Search:    c.Query("search"),
	}
	subjects, err := h.allocations.ListAvailable(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// Get godoc
// @Summary Get subject
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	subject, err := h.subjects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Create godoc
// @Summary Create subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubjectRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req dto.CreateSubjectRequest
	if !bindJSON(c, &req, "invalid subject payload") {
		return
	}
	subject, err := h.subjects.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}
