package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teaching-load-api/internal/dto"
	"github.com/noah-isme/teaching-load-api/internal/models"
	"github.com/noah-isme/teaching-load-api/internal/service"
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
)

type lifecycleMock struct {
	op    string
	actor models.Actor
	req   dto.CourseTransitionRequest
	err   error
}

func (m *lifecycleMock) results() []dto.CourseTransitionResult {
	out := make([]dto.CourseTransitionResult, 0, len(m.req.CourseIDs))
	for i, id := range m.req.CourseIDs {
		r := dto.CourseTransitionResult{CourseID: id, Success: i == 0}
		if !r.Success {
			r.Error = &dto.ItemError{Code: appErrors.ErrInvalidStatusTransition.Code}
		}
		out = append(out, r)
	}
	return out
}

func (m *lifecycleMock) record(op string, actor models.Actor, req dto.CourseTransitionRequest) ([]dto.CourseTransitionResult, error) {
	m.op, m.actor, m.req = op, actor, req
	if m.err != nil {
		return nil, m.err
	}
	return m.results(), nil
}

func (m *lifecycleMock) BulkUpdate(ctx context.Context, actor models.Actor, req dto.CourseTransitionRequest) ([]dto.CourseTransitionResult, error) {
	return m.record("bulk", actor, req)
}

func (m *lifecycleMock) Assign(ctx context.Context, actor models.Actor, req dto.CourseTransitionRequest) ([]dto.CourseTransitionResult, error) {
	return m.record("assign", actor, req)
}

func (m *lifecycleMock) Unassign(ctx context.Context, actor models.Actor, req dto.CourseTransitionRequest) ([]dto.CourseTransitionResult, error) {
	return m.record("unassign", actor, req)
}

func TestCourseHandlerPassesActorAndSummarises(t *testing.T) {
	lifecycle := &lifecycleMock{}
	handler := NewCourseHandler(lifecycle)

	c, w := newJSONContext(http.MethodPost, "/courses/assign", map[string]interface{}{"courseIds": []string{"c1", "c2"}})
	actor := models.Actor{ID: "u-1", Role: models.RoleFaculty}
	c.Request = c.Request.WithContext(service.WithActor(c.Request.Context(), actor))
	handler.Assign(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "assign", lifecycle.op)
	assert.Equal(t, actor, lifecycle.actor)
	body := decodeEnvelope(t, w)
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, 1.0, meta["succeeded"])
	assert.Equal(t, 1.0, meta["failed"])
	assert.Len(t, body["data"], 2)
}

func TestCourseHandlerRoutesEachTransition(t *testing.T) {
	lifecycle := &lifecycleMock{}
	handler := NewCourseHandler(lifecycle)

	c, _ := newJSONContext(http.MethodPost, "/courses/bulk-update", map[string]interface{}{
		"courseIds": []string{"c1"}, "updates": map[string]string{"status": "active"},
	})
	handler.BulkUpdate(c)
	assert.Equal(t, "bulk", lifecycle.op)
	assert.Equal(t, models.CourseStatus("active"), lifecycle.req.Updates.Status)

	c, _ = newJSONContext(http.MethodPost, "/courses/unassign", map[string]interface{}{"courseIds": []string{"c1"}})
	handler.Unassign(c)
	assert.Equal(t, "unassign", lifecycle.op)
}

func TestCourseHandlerErrors(t *testing.T) {
	lifecycle := &lifecycleMock{err: appErrors.Clone(appErrors.ErrForbidden, "role INSTRUCTOR may not change course status")}
	handler := NewCourseHandler(lifecycle)

	c, w := newJSONContext(http.MethodPost, "/courses/assign", map[string]interface{}{"courseIds": []string{"c1"}})
	handler.Assign(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = newJSONContext(http.MethodPost, "/courses/assign", "[")
	handler.Assign(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
