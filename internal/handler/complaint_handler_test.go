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
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
)

type complaintMock struct {
	query    dto.ComplaintQuery
	resolved string
	err      error
}

func (m *complaintMock) Create(ctx context.Context, actor models.Actor, req dto.CreateComplaintRequest) (*models.Complaint, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Complaint{ID: "cmp-1", SubAssignmentID: req.SubAssignmentID, Status: models.ComplaintPending, FiledBy: actor.ID}, nil
}

func (m *complaintMock) List(ctx context.Context, q dto.ComplaintQuery) ([]models.Complaint, int, error) {
	m.query = q
	return []models.Complaint{{ID: "cmp-1"}}, 41, m.err
}

func (m *complaintMock) Resolve(ctx context.Context, actor models.Actor, id string, req dto.ResolveComplaintRequest) (*models.Complaint, error) {
	m.resolved = id
	if m.err != nil {
		return nil, m.err
	}
	return &models.Complaint{ID: id, Status: req.Status}, nil
}

func TestComplaintHandlerCreate(t *testing.T) {
	handler := NewComplaintHandler(&complaintMock{})

	c, w := newJSONContext(http.MethodPost, "/complaints", map[string]string{
		"assignmentId": "agg-1", "subAssignmentId": "sub-1", "reason": "overloaded",
	})
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Pending", data["status"])
}

func TestComplaintHandlerListDefaultsPaging(t *testing.T) {
	complaints := &complaintMock{}
	handler := NewComplaintHandler(complaints)

	c, w := newJSONContext(http.MethodGet, "/complaints?status=Pending", nil)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, complaints.query.Page)
	assert.Equal(t, 20, complaints.query.PageSize)
	assert.Equal(t, "Pending", complaints.query.Status)
	pagination := decodeEnvelope(t, w)["pagination"].(map[string]interface{})
	assert.Equal(t, 41.0, pagination["total_count"])

	c, w = newJSONContext(http.MethodGet, "/complaints?page=abc", nil)
	handler.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestComplaintHandlerResolve(t *testing.T) {
	complaints := &complaintMock{}
	handler := NewComplaintHandler(complaints)

	c, w := newJSONContext(http.MethodPatch, "/complaints/cmp-1", map[string]string{"status": "Resolved"})
	c.Params = gin.Params{{Key: "id", Value: "cmp-1"}}
	handler.Resolve(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cmp-1", complaints.resolved)

	complaints.err = appErrors.Clone(appErrors.ErrInvalidStatusTransition, "complaint already Resolved")
	c, w = newJSONContext(http.MethodPatch, "/complaints/cmp-1", map[string]string{"status": "Rejected"})
	c.Params = gin.Params{{Key: "id", Value: "cmp-1"}}
	handler.Resolve(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
