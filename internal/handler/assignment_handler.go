package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teaching-load-api/internal/dto"
	"github.com/noah-isme/teaching-load-api/internal/middleware"
	"github.com/noah-isme/teaching-load-api/internal/models"
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
	"github.com/noah-isme/teaching-load-api/pkg/response"
)

type assignmentScheduler interface {
	AssignManual(ctx context.Context, req dto.ManualAssignmentRequest) (*models.SubAssignment, error)
	AssignBulk(ctx context.Context, program models.Program, req dto.BulkAssignmentRequest) ([]dto.AssignmentRowResult, error)
	AutoAssign(ctx context.Context, req dto.AutoAssignmentRequest) (*dto.AutoAssignmentResponse, error)
}

type subAssignmentEditor interface {
	Update(ctx context.Context, parentID, subID string, req dto.UpdateSubAssignmentRequest) (*models.SubAssignment, error)
	Delete(ctx context.Context, parentID, subID string) (*models.SubAssignment, error)
}

type assignmentQuery interface {
	Scope(ctx context.Context, q dto.AssignmentScopeQuery) ([]models.Assignment, bool, error)
	ByInstructor(ctx context.Context, instructorID string) ([]models.SubAssignmentDetail, error)
	ByChair(ctx context.Context, chairID string) ([]models.SubAssignmentDetail, error)
}

// AssignmentHandler exposes the assignment engine over HTTP.
type AssignmentHandler struct {
	scheduler assignmentScheduler
	editor    subAssignmentEditor
	query     assignmentQuery
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(scheduler assignmentScheduler, editor subAssignmentEditor, query assignmentQuery) *AssignmentHandler {
	return &AssignmentHandler{scheduler: scheduler, editor: editor, query: query}
}

// CreateManual godoc
// @Summary Assign one instructor to a course section
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.ManualAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) CreateManual(c *gin.Context) {
	var req dto.ManualAssignmentRequest
	if !bindJSON(c, &req, "assignment") {
		return
	}
	sub, err := h.scheduler.AssignManual(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sub)
}

// AutoRegular godoc
// @Summary Automatically staff courses for the regular program
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.AutoAssignmentRequest true "Automatic assignment payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /assignments/auto [post]
func (h *AssignmentHandler) AutoRegular(c *gin.Context) {
	h.autoAssign(c, models.ProgramRegular)
}

// AutoCommon godoc
// @Summary Automatically staff common courses
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.AutoAssignmentRequest true "Automatic assignment payload"
// @Success 200 {object} response.Envelope
// @Router /assignments/auto/common [post]
func (h *AssignmentHandler) AutoCommon(c *gin.Context) {
	h.autoAssign(c, models.ProgramCommon)
}

// AutoExtension godoc
// @Summary Automatically staff extension courses
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.AutoAssignmentRequest true "Automatic assignment payload"
// @Success 200 {object} response.Envelope
// @Router /assignments/auto/extension [post]
func (h *AssignmentHandler) AutoExtension(c *gin.Context) {
	h.autoAssign(c, models.ProgramExtension)
}

// AutoSummer godoc
// @Summary Automatically staff summer courses
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.AutoAssignmentRequest true "Automatic assignment payload"
// @Success 200 {object} response.Envelope
// @Router /assignments/auto/summer [post]
func (h *AssignmentHandler) AutoSummer(c *gin.Context) {
	h.autoAssign(c, models.ProgramSummer)
}

func (h *AssignmentHandler) autoAssign(c *gin.Context, program models.Program) {
	var req dto.AutoAssignmentRequest
	if !bindJSON(c, &req, "automatic assignment") {
		return
	}
	req.Program = program
	resp, err := h.scheduler.AutoAssign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil, map[string]interface{}{
		"committed": len(resp.Committed),
		"unfilled":  len(resp.Unfilled),
	})
}

// BulkCommon godoc
// @Summary Bulk manual assignment for common courses
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.BulkAssignmentRequest true "Bulk rows"
// @Success 200 {object} response.Envelope
// @Router /assignments/common/manual [post]
func (h *AssignmentHandler) BulkCommon(c *gin.Context) {
	h.bulk(c, models.ProgramCommon)
}

// BulkExtension godoc
// @Summary Bulk manual assignment for extension courses
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.BulkAssignmentRequest true "Bulk rows"
// @Success 200 {object} response.Envelope
// @Router /assignments/extension/manual [post]
func (h *AssignmentHandler) BulkExtension(c *gin.Context) {
	h.bulk(c, models.ProgramExtension)
}

func (h *AssignmentHandler) bulk(c *gin.Context, program models.Program) {
	var req dto.BulkAssignmentRequest
	if !bindJSON(c, &req, "bulk assignment") {
		return
	}
	results, err := h.scheduler.AssignBulk(c.Request.Context(), program, req)
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

// Scope godoc
// @Summary List aggregates with nested sub-assignments for a period
// @Tags Assignments
// @Produce json
// @Param year query string true "Academic year"
// @Param semester query string false "Semester"
// @Param program query string true "Program"
// @Param assignedBy query string false "Operator"
// @Success 200 {object} response.Envelope
// @Router /assignments/automatic [get]
func (h *AssignmentHandler) Scope(c *gin.Context) {
	var q dto.AssignmentScopeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	aggregates, cached, err := h.query.Scope(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, aggregates, nil, middleware.ExtractMeta(c))
}

// UpdateSub godoc
// @Summary Edit one sub-assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param parentId path string true "Aggregate ID"
// @Param subId path string true "Sub-assignment ID"
// @Param payload body dto.UpdateSubAssignmentRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/sub/{parentId}/{subId} [put]
func (h *AssignmentHandler) UpdateSub(c *gin.Context) {
	parentID, ok := requireParam(c, "parentId")
	if !ok {
		return
	}
	subID, ok := requireParam(c, "subId")
	if !ok {
		return
	}
	var req dto.UpdateSubAssignmentRequest
	if !bindJSON(c, &req, "sub-assignment") {
		return
	}
	sub, err := h.editor.Update(c.Request.Context(), parentID, subID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sub, nil)
}

// DeleteSub godoc
// @Summary Delete one sub-assignment
// @Tags Assignments
// @Produce json
// @Param parentId path string true "Aggregate ID"
// @Param subId path string true "Sub-assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/sub/{parentId}/{subId} [delete]
func (h *AssignmentHandler) DeleteSub(c *gin.Context) {
	parentID, ok := requireParam(c, "parentId")
	if !ok {
		return
	}
	subID, ok := requireParam(c, "subId")
	if !ok {
		return
	}
	sub, err := h.editor.Delete(c.Request.Context(), parentID, subID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sub, nil)
}

// ByInstructor godoc
// @Summary List an instructor's sub-assignments
// @Tags Assignments
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/get/{instructorId} [get]
func (h *AssignmentHandler) ByInstructor(c *gin.Context) {
	instructorID, ok := requireParam(c, "instructorId")
	if !ok {
		return
	}
	subs, err := h.query.ByInstructor(c.Request.Context(), instructorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subs, nil)
}

// ByChair godoc
// @Summary List sub-assignments on a chair's courses
// @Tags Assignments
// @Produce json
// @Param chairId path string true "Chair ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/chair/{chairId} [get]
func (h *AssignmentHandler) ByChair(c *gin.Context) {
	chairID, ok := requireParam(c, "chairId")
	if !ok {
		return
	}
	subs, err := h.query.ByChair(c.Request.Context(), chairID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subs, nil)
}
