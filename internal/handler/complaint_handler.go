package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teaching-load-api/internal/dto"
	"github.com/noah-isme/teaching-load-api/internal/models"
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
	"github.com/noah-isme/teaching-load-api/pkg/response"
)

type complaintService interface {
	Create(ctx context.Context, actor models.Actor, req dto.CreateComplaintRequest) (*models.Complaint, error)
	List(ctx context.Context, q dto.ComplaintQuery) ([]models.Complaint, int, error)
	Resolve(ctx context.Context, actor models.Actor, id string, req dto.ResolveComplaintRequest) (*models.Complaint, error)
}

// ComplaintHandler exposes complaints raised against sub-assignments.
type ComplaintHandler struct {
	service complaintService
}

// NewComplaintHandler constructs the handler.
func NewComplaintHandler(service complaintService) *ComplaintHandler {
	return &ComplaintHandler{service: service}
}

// Create godoc
// @Summary File a complaint against a sub-assignment
// @Tags Complaints
// @Accept json
// @Produce json
// @Param payload body dto.CreateComplaintRequest true "Complaint"
// @Success 201 {object} response.Envelope
// @Router /complaints [post]
func (h *ComplaintHandler) Create(c *gin.Context) {
	var req dto.CreateComplaintRequest
	if !bindJSON(c, &req, "complaint") {
		return
	}
	complaint, err := h.service.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, complaint)
}

// List godoc
// @Summary List complaints
// @Tags Complaints
// @Produce json
// @Param status query string false "Pending, Resolved or Rejected"
// @Param assignmentId query string false "Aggregate ID"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /complaints [get]
func (h *ComplaintHandler) List(c *gin.Context) {
	var q dto.ComplaintQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 20
	}
	items, total, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, &response.Pagination{Page: q.Page, PageSize: q.PageSize, TotalCount: total})
}

// Resolve godoc
// @Summary Resolve or reject a pending complaint
// @Tags Complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID"
// @Param payload body dto.ResolveComplaintRequest true "Outcome"
// @Success 200 {object} response.Envelope
// @Router /complaints/{id} [patch]
func (h *ComplaintHandler) Resolve(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	var req dto.ResolveComplaintRequest
	if !bindJSON(c, &req, "complaint resolution") {
		return
	}
	complaint, err := h.service.Resolve(c.Request.Context(), actorFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, complaint, nil)
}
