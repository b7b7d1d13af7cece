package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teaching-load-api/internal/middleware"
)

// Handlers bundles every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Assignments *AssignmentHandler
	Courses     *CourseHandler
	Preferences *PreferenceHandler
	Complaints  *ComplaintHandler
	Instructors *InstructorHandler
	Metrics     *MetricsHandler
}

// RegisterRoutes mounts the health endpoints on r and the authenticated API under prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, auth gin.HandlerFunc) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)
	api.Use(auth, middleware.WithResponseMeta())
	api.GET("/metrics/summary", middleware.RequireRoles(middleware.FacultyRoles...), h.Metrics.Summary)

	scheduling := middleware.RequireRoles(middleware.SchedulingRoles...)
	faculty := middleware.RequireRoles(middleware.FacultyRoles...)
	anyone := middleware.RequireRoles(middleware.AllRoles...)

	assignments := api.Group("/assignments")
	{
		assignments.POST("", scheduling, h.Assignments.CreateManual)
		assignments.POST("/auto", scheduling, h.Assignments.AutoRegular)
		assignments.POST("/auto/common", scheduling, h.Assignments.AutoCommon)
		assignments.POST("/auto/extension", scheduling, h.Assignments.AutoExtension)
		assignments.POST("/auto/summer", scheduling, h.Assignments.AutoSummer)
		assignments.POST("/common/manual", scheduling, h.Assignments.BulkCommon)
		assignments.POST("/extension/manual", scheduling, h.Assignments.BulkExtension)
		assignments.GET("/automatic", anyone, h.Assignments.Scope)
		assignments.PUT("/sub/:parentId/:subId", scheduling, h.Assignments.UpdateSub)
		assignments.DELETE("/sub/:parentId/:subId", scheduling, h.Assignments.DeleteSub)
		assignments.GET("/get/:instructorId", anyone, h.Assignments.ByInstructor)
		assignments.GET("/chair/:chairId", anyone, h.Assignments.ByChair)
	}

	courses := api.Group("/courses")
	{
		courses.POST("/bulk-update", scheduling, h.Courses.BulkUpdate)
		courses.POST("/assign", faculty, h.Courses.Assign)
		courses.POST("/unassign", faculty, h.Courses.Unassign)
	}

	api.GET("/instructors/:id/capacity", anyone, h.Instructors.Capacity)

	preferences := api.Group("/preferences")
	{
		preferences.POST("", anyone, h.Preferences.Submit)
		preferences.GET("/:instructorId", anyone, h.Preferences.Get)
		preferences.DELETE("/:id", scheduling, h.Preferences.Delete)
	}

	complaints := api.Group("/complaints")
	{
		complaints.POST("", anyone, h.Complaints.Create)
		complaints.GET("", scheduling, h.Complaints.List)
		complaints.PATCH("/:id", scheduling, h.Complaints.Resolve)
	}
}
