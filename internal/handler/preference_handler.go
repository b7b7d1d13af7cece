package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teaching-load-api/internal/dto"
	"github.com/noah-isme/teaching-load-api/internal/models"
	"github.com/noah-isme/teaching-load-api/pkg/response"
)

type preferenceService interface {
	Submit(ctx context.Context, actor models.Actor, req dto.SubmitPreferenceRequest) (*models.Preference, error)
	Get(ctx context.Context, instructorID string, q dto.PeriodQuery) (*models.Preference, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
}

// PreferenceHandler exposes instructor course preferences.
type PreferenceHandler struct {
	service preferenceService
}

// NewPreferenceHandler constructs the handler.
func NewPreferenceHandler(service preferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: service}
}

// Submit godoc
// @Summary Submit or supersede an instructor's ranked preferences
// @Tags Preferences
// @Accept json
// @Produce json
// @Param payload body dto.SubmitPreferenceRequest true "Ranked courses"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /preferences [post]
func (h *PreferenceHandler) Submit(c *gin.Context) {
	var req dto.SubmitPreferenceRequest
	if !bindJSON(c, &req, "preference") {
		return
	}
	pref, err := h.service.Submit(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pref)
}

// Get godoc
// @Summary Get an instructor's preferences for a period
// @Tags Preferences
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Param year query string true "Academic year"
// @Param semester query string false "Semester"
// @Param program query string true "Program"
// @Success 200 {object} response.Envelope
// @Router /preferences/{instructorId} [get]
func (h *PreferenceHandler) Get(c *gin.Context) {
	instructorID, ok := requireParam(c, "instructorId")
	if !ok {
		return
	}
	q := dto.PeriodQuery{Year: c.Query("year"), Semester: c.Query("semester"), Program: c.Query("program")}
	pref, err := h.service.Get(c.Request.Context(), instructorID, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pref, nil)
}

// Delete godoc
// @Summary Delete a preference submission
// @Tags Preferences
// @Param id path string true "Preference ID"
// @Success 204
// @Router /preferences/{id} [delete]
func (h *PreferenceHandler) Delete(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actorFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
