package handler

import "github.com/gin-gonic/gin"

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Teachers    *TeacherHandler
	Subjects    *SubjectHandler
	ExamSlots   *ExamSlotHandler
	Exams       *ExamHandler
	CoursePlans *CoursePlanHandler
}

// RegisterRoutes mounts the portal API on r.
func RegisterRoutes(r gin.IRouter, h Handlers) {
	teachers := r.Group("/teachers")
	teachers.GET("", h.Teachers.List)
	teachers.POST("", h.Teachers.Create)
	teachers.GET("/:id", h.Teachers.Get)
	teachers.PUT("/:id", h.Teachers.Update)
	teachers.PATCH("/:id/status", h.Teachers.SetStatus)
	teachers.GET("/:id/allocations", h.Teachers.ListAllocations)
	teachers.POST("/:id/allocations", h.Teachers.Allocate)
	teachers.DELETE("/:id/allocations/:subjectId", h.Teachers.Deallocate)

	subjects := r.Group("/subjects")
	subjects.GET("", h.Subjects.List)
	subjects.POST("", h.Subjects.Create)
	subjects.GET("/available", h.Subjects.Available)
	subjects.GET("/:id", h.Subjects.Get)

	slots := r.Group("/exam-slots")
	slots.GET("", h.ExamSlots.List)
	slots.POST("", h.ExamSlots.Create)
	slots.GET("/export", h.ExamSlots.Export)
	slots.GET("/:id", h.ExamSlots.Get)
	slots.PUT("/:id", h.ExamSlots.Update)
	slots.DELETE("/:id", h.ExamSlots.Delete)
	slots.POST("/:id/exam", h.ExamSlots.Bind)
	slots.DELETE("/:id/exam", h.ExamSlots.Unbind)
	slots.POST("/:id/toggle", h.ExamSlots.Toggle)

	exams := r.Group("/exams")
	exams.GET("", h.Exams.List)
	exams.POST("", h.Exams.Create)
	exams.GET("/:id", h.Exams.Get)
	exams.PUT("/:id", h.Exams.Update)
	exams.DELETE("/:id", h.Exams.Delete)

	plans := r.Group("/course-plans")
	plans.GET("", h.CoursePlans.List)
	plans.POST("", h.CoursePlans.Create)
	plans.GET("/:id", h.CoursePlans.Get)
	plans.PUT("/:id", h.CoursePlans.Update)
	plans.GET("/:id/summary", h.CoursePlans.Summary)
	plans.GET("/:id/export", h.CoursePlans.Export)
	plans.POST("/:id/subjects", h.CoursePlans.AddSubject)
	plans.DELETE("/:id/subjects", h.CoursePlans.Clear)
	plans.POST("/:id/subjects/bulk", h.CoursePlans.BulkAdd)
	plans.DELETE("/:id/subjects/:subjectId", h.CoursePlans.RemoveSubject)
}

// RegisterOps mounts liveness, readiness and optionally the Prometheus endpoint.
func RegisterOps(r gin.IRouter, h *MetricsHandler, exposeMetrics bool) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	if exposeMetrics {
		r.GET("/metrics", h.Prometheus)
	}
}
