package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teaching-load-api/internal/dto"
	"github.com/noah-isme/teaching-load-api/internal/models"
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
)

type schedulerMock struct {
	manualReq   dto.ManualAssignmentRequest
	autoReq     dto.AutoAssignmentRequest
	bulkProgram models.Program
	sub         *models.SubAssignment
	rows        []dto.AssignmentRowResult
	err         error
}

func (m *schedulerMock) AssignManual(ctx context.Context, req dto.ManualAssignmentRequest) (*models.SubAssignment, error) {
	m.manualReq = req
	return m.sub, m.err
}

func (m *schedulerMock) AssignBulk(ctx context.Context, program models.Program, req dto.BulkAssignmentRequest) ([]dto.AssignmentRowResult, error) {
	m.bulkProgram = program
	return m.rows, m.err
}

func (m *schedulerMock) AutoAssign(ctx context.Context, req dto.AutoAssignmentRequest) (*dto.AutoAssignmentResponse, error) {
	m.autoReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.AutoAssignmentResponse{Committed: []models.SubAssignment{}, Unfilled: []dto.UnfilledSlot{{CourseID: "c1", Section: "A"}}}, nil
}

type editorMock struct {
	parentID, subID string
	err             error
}

func (m *editorMock) Update(ctx context.Context, parentID, subID string, req dto.UpdateSubAssignmentRequest) (*models.SubAssignment, error) {
	m.parentID, m.subID = parentID, subID
	return &models.SubAssignment{ID: subID, AssignmentID: parentID}, m.err
}

func (m *editorMock) Delete(ctx context.Context, parentID, subID string) (*models.SubAssignment, error) {
	m.parentID, m.subID = parentID, subID
	if m.err != nil {
		return nil, m.err
	}
	return &models.SubAssignment{ID: subID, AssignmentID: parentID}, nil
}

type queryMock struct {
	scope  dto.AssignmentScopeQuery
	cached bool
}

func (m *queryMock) Scope(ctx context.Context, q dto.AssignmentScopeQuery) ([]models.Assignment, bool, error) {
	m.scope = q
	return []models.Assignment{{ID: "agg-1"}}, m.cached, nil
}

func (m *queryMock) ByInstructor(ctx context.Context, instructorID string) ([]models.SubAssignmentDetail, error) {
	return []models.SubAssignmentDetail{}, nil
}

func (m *queryMock) ByChair(ctx context.Context, chairID string) ([]models.SubAssignmentDetail, error) {
	return []models.SubAssignmentDetail{}, nil
}

func newJSONContext(method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req, _ := http.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestAssignmentHandlerCreateManual(t *testing.T) {
	scheduler := &schedulerMock{sub: &models.SubAssignment{ID: "sub-1", WorkloadHours: 3}}
	handler := NewAssignmentHandler(scheduler, &editorMock{}, &queryMock{})

	c, w := newJSONContext(http.MethodPost, "/assignments", map[string]interface{}{
		"instructorId": "i1", "courseId": "c1", "year": "2024", "program": "Regular", "section": "A", "workload": 3, "assignedBy": "op",
	})
	handler.CreateManual(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "i1", scheduler.manualReq.InstructorID)
	assert.Equal(t, 3.0, scheduler.manualReq.Workload)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "sub-1", data["id"])
	assert.Equal(t, 3.0, data["workload"])
}

func TestAssignmentHandlerCreateManualErrors(t *testing.T) {
	handler := NewAssignmentHandler(&schedulerMock{}, &editorMock{}, &queryMock{})
	c, w := newJSONContext(http.MethodPost, "/assignments", "{not json")
	handler.CreateManual(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	scheduler := &schedulerMock{err: appErrors.Clone(appErrors.ErrCapacityExceeded, "requires 3.00h but only 1.00h remain")}
	handler = NewAssignmentHandler(scheduler, &editorMock{}, &queryMock{})
	c, w = newJSONContext(http.MethodPost, "/assignments", map[string]string{"instructorId": "i1"})
	handler.CreateManual(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	errBody := decodeEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "CAPACITY_EXCEEDED", errBody["code"])

	scheduler.err = appErrors.ErrWriteConflict
	c, w = newJSONContext(http.MethodPost, "/assignments", map[string]string{"instructorId": "i1"})
	handler.CreateManual(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAssignmentHandlerAutoSetsProgramFromRoute(t *testing.T) {
	scheduler := &schedulerMock{}
	handler := NewAssignmentHandler(scheduler, &editorMock{}, &queryMock{})

	c, w := newJSONContext(http.MethodPost, "/assignments/auto/summer", map[string]interface{}{
		"year": "2024", "assignedBy": "op", "program": "Regular",
		"instructors": []string{"i1"}, "courses": []map[string]string{{"courseId": "c1", "section": "A"}},
	})
	handler.AutoSummer(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ProgramSummer, scheduler.autoReq.Program)
	meta := decodeEnvelope(t, w)["meta"].(map[string]interface{})
	assert.Equal(t, 1.0, meta["unfilled"])
}

func TestAssignmentHandlerBulkSummarises(t *testing.T) {
	scheduler := &schedulerMock{rows: []dto.AssignmentRowResult{
		{Index: 0, Success: true},
		{Index: 1, Error: &dto.ItemError{Code: "DUPLICATE_ASSIGNMENT"}},
		{Index: 2, Success: true},
	}}
	handler := NewAssignmentHandler(scheduler, &editorMock{}, &queryMock{})

	c, w := newJSONContext(http.MethodPost, "/assignments/extension/manual", map[string]interface{}{"year": "2024"})
	handler.BulkExtension(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ProgramExtension, scheduler.bulkProgram)
	meta := decodeEnvelope(t, w)["meta"].(map[string]interface{})
	assert.Equal(t, 2.0, meta["succeeded"])
	assert.Equal(t, 1.0, meta["failed"])
}

func TestAssignmentHandlerSubMutations(t *testing.T) {
	editor := &editorMock{}
	handler := NewAssignmentHandler(&schedulerMock{}, editor, &queryMock{})

	c, w := newJSONContext(http.MethodPut, "/assignments/sub/agg-1/sub-1", map[string]string{"section": "B"})
	c.Params = gin.Params{{Key: "parentId", Value: "agg-1"}, {Key: "subId", Value: "sub-1"}}
	handler.UpdateSub(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "agg-1", editor.parentID)
	assert.Equal(t, "sub-1", editor.subID)

	editor.err = appErrors.Clone(appErrors.ErrNotFound, "sub-assignment not found")
	c, w = newJSONContext(http.MethodDelete, "/assignments/sub/agg-1/sub-9", nil)
	c.Params = gin.Params{{Key: "parentId", Value: "agg-1"}, {Key: "subId", Value: "sub-9"}}
	handler.DeleteSub(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newJSONContext(http.MethodDelete, "/assignments/sub//", nil)
	handler.DeleteSub(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignmentHandlerScopeReportsCache(t *testing.T) {
	query := &queryMock{cached: true}
	handler := NewAssignmentHandler(&schedulerMock{}, &editorMock{}, query)

	c, w := newJSONContext(http.MethodGet, "/assignments/automatic?year=2024&semester=1&program=Regular&assignedBy=op", nil)
	handler.Scope(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.AssignmentScopeQuery{Year: "2024", Semester: "1", Program: "Regular", AssignedBy: "op"}, query.scope)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	meta := decodeEnvelope(t, w)["meta"].(map[string]interface{})
	assert.Equal(t, true, meta["cache_hit"])
}
