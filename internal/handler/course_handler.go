package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teaching-load-api/internal/dto"
	"github.com/noah-isme/teaching-load-api/internal/models"
	"github.com/noah-isme/teaching-load-api/pkg/response"
)

type courseLifecycle interface {
	BulkUpdate(ctx context.Context, actor models.Actor, req dto.CourseTransitionRequest) ([]dto.CourseTransitionResult, error)
	Assign(ctx context.Context, actor models.Actor, req dto.CourseTransitionRequest) ([]dto.CourseTransitionResult, error)
	Unassign(ctx context.Context, actor models.Actor, req dto.CourseTransitionRequest) ([]dto.CourseTransitionResult, error)
}

// CourseHandler exposes course lifecycle transitions.
type CourseHandler struct {
	lifecycle courseLifecycle
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(lifecycle courseLifecycle) *CourseHandler {
	return &CourseHandler{lifecycle: lifecycle}
}

type transitionFunc func(ctx context.Context, actor models.Actor, req dto.CourseTransitionRequest) ([]dto.CourseTransitionResult, error)

// BulkUpdate godoc
// @Summary Move courses to updates.status
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.CourseTransitionRequest true "Courses and target status"
// @Success 200 {object} response.Envelope
// @Router /courses/bulk-update [post]
func (h *CourseHandler) BulkUpdate(c *gin.Context) {
	h.transition(c, h.lifecycle.BulkUpdate)
}

// Assign godoc
// @Summary Publish courses to their chairs
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.CourseTransitionRequest true "Courses and optional chair"
// @Success 200 {object} response.Envelope
// @Router /courses/assign [post]
func (h *CourseHandler) Assign(c *gin.Context) {
	h.transition(c, h.lifecycle.Assign)
}

// Unassign godoc
// @Summary Return courses to draft
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.CourseTransitionRequest true "Courses"
// @Success 200 {object} response.Envelope
// @Router /courses/unassign [post]
func (h *CourseHandler) Unassign(c *gin.Context) {
	h.transition(c, h.lifecycle.Unassign)
}

func (h *CourseHandler) transition(c *gin.Context, apply transitionFunc) {
	var req dto.CourseTransitionRequest
	if !bindJSON(c, &req, "course transition") {
		return
	}
	results, err := apply(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	response.Bulk(c, results, succeeded, len(results)-succeeded)
}
