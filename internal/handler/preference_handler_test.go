package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teaching-load-api/internal/dto"
	"github.com/noah-isme/teaching-load-api/internal/models"
	"github.com/noah-isme/teaching-load-api/internal/service"
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
)

type preferenceMock struct {
	actor     models.Actor
	submitted dto.SubmitPreferenceRequest
	query     dto.PeriodQuery
	deleted   string
	err       error
}

func (m *preferenceMock) Submit(ctx context.Context, actor models.Actor, req dto.SubmitPreferenceRequest) (*models.Preference, error) {
	m.actor, m.submitted = actor, req
	if m.err != nil {
		return nil, m.err
	}
	return &models.Preference{ID: "pref-1", InstructorID: req.InstructorID, Program: req.Program}, nil
}

func (m *preferenceMock) Get(ctx context.Context, instructorID string, q dto.PeriodQuery) (*models.Preference, error) {
	m.query = q
	if m.err != nil {
		return nil, m.err
	}
	return &models.Preference{ID: "pref-1", InstructorID: instructorID}, nil
}

func (m *preferenceMock) Delete(ctx context.Context, actor models.Actor, id string) error {
	m.actor, m.deleted = actor, id
	return m.err
}

func TestPreferenceHandlerSubmit(t *testing.T) {
	prefs := &preferenceMock{}
	handler := NewPreferenceHandler(prefs)

	c, w := newJSONContext(http.MethodPost, "/preferences", map[string]interface{}{
		"instructorId": "i1", "year": "2024", "program": "Regular",
		"items": []map[string]interface{}{{"courseId": "c1", "rank": 1}, {"courseId": "c2", "rank": 2}},
	})
	actor := models.Actor{ID: "user-i1", Role: models.RoleInstructor}
	c.Request = c.Request.WithContext(service.WithActor(c.Request.Context(), actor))
	handler.Submit(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, actor, prefs.actor)
	assert.Len(t, prefs.submitted.Items, 2)
	assert.Equal(t, 2, prefs.submitted.Items[1].Rank)

	prefs.err = appErrors.Clone(appErrors.ErrPreferenceConflict, "rank 1 used twice")
	c, w = newJSONContext(http.MethodPost, "/preferences", map[string]interface{}{"instructorId": "i1"})
	handler.Submit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreferenceHandlerGetReadsPeriod(t *testing.T) {
	prefs := &preferenceMock{}
	handler := NewPreferenceHandler(prefs)

	c, w := newJSONContext(http.MethodGet, "/preferences/i1?year=2024&semester=2&program=Common", nil)
	c.Params = gin.Params{{Key: "instructorId", Value: "i1"}}
	handler.Get(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.PeriodQuery{Year: "2024", Semester: "2", Program: "Common"}, prefs.query)
}

func TestPreferenceHandlerDelete(t *testing.T) {
	prefs := &preferenceMock{}
	handler := NewPreferenceHandler(prefs)

	c, w := newJSONContext(http.MethodDelete, "/preferences/pref-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "pref-1"}}
	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "pref-1", prefs.deleted)

	prefs.err = appErrors.Clone(appErrors.ErrNotFound, "preference not found")
	c, w = newJSONContext(http.MethodDelete, "/preferences/pref-2", nil)
	c.Params = gin.Params{{Key: "id", Value: "pref-2"}}
	handler.Delete(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
