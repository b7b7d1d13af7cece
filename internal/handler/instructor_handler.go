package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teaching-load-api/internal/dto"
	"github.com/noah-isme/teaching-load-api/internal/models"
	"github.com/noah-isme/teaching-load-api/pkg/response"
)

type capacityQuery interface {
	InstructorCapacity(ctx context.Context, instructorID string, q dto.PeriodQuery) (*models.Capacity, []models.Commitment, error)
}

// InstructorHandler exposes instructor workload capacity.
type InstructorHandler struct {
	query capacityQuery
}

// NewInstructorHandler constructs the handler.
func NewInstructorHandler(query capacityQuery) *InstructorHandler {
	return &InstructorHandler{query: query}
}

type capacityResponse struct {
	*models.Capacity
	Commitments []models.Commitment `json:"commitments"`
}

// Capacity godoc
// @Summary Remaining teaching capacity of an instructor in a period
// @Tags Instructors
// @Produce json
// @Param id path string true "Instructor ID"
// @Param year query string true "Academic year"
// @Param semester query string false "Semester"
// @Param program query string true "Program"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /instructors/{id}/capacity [get]
func (h *InstructorHandler) Capacity(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	q := dto.PeriodQuery{Year: c.Query("year"), Semester: c.Query("semester"), Program: c.Query("program")}
	capacity, commitments, err := h.query.InstructorCapacity(c.Request.Context(), id, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, capacityResponse{Capacity: capacity, Commitments: commitments}, nil)
}
