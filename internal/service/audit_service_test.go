package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teaching-load-api/internal/models"
	"github.com/noah-isme/teaching-load-api/pkg/config"
	"github.com/noah-isme/teaching-load-api/pkg/middleware/requestid"
)

type auditWriterStub struct {
	mu      sync.Mutex
	entries []*models.AuditLog
	err     error
}

func (s *auditWriterStub) Create(_ context.Context, log *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, log)
	return nil
}

func TestAuditServiceRecordsActorAndRequest(t *testing.T) {
	writer := &auditWriterStub{}
	svc := NewAuditService(writer, config.AuditConfig{Workers: 1}, nil)
	svc.Start(context.Background())

	ctx := WithActor(context.Background(), models.Actor{ID: "dean", Role: models.RoleFaculty})
	ctx = requestid.WithRequestID(ctx, "req-42")
	svc.Record(ctx, models.AuditActionAssignmentCreate, "sub_assignment", "sub-1", map[string]string{"mode": "manual"})
	svc.Stop()

	require.Len(t, writer.entries, 1)
	entry := writer.entries[0]
	assert.Equal(t, models.AuditActionAssignmentCreate, entry.Action)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, "dean", *entry.ActorID)
	require.NotNil(t, entry.RequestID)
	assert.Equal(t, "req-42", *entry.RequestID)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "sub-1", *entry.ResourceID)
	assert.JSONEq(t, `{"mode":"manual"}`, entry.Payload.String())
}

func TestAuditServiceFailuresDoNotPropagate(t *testing.T) {
	writer := &auditWriterStub{err: errors.New("db down")}
	svc := NewAuditService(writer, config.AuditConfig{Workers: 1}, nil)

	// not started: the entry is dropped
	svc.Record(context.Background(), models.AuditActionCourseStatusChange, "course", "c1", nil)

	svc.Start(context.Background())
	svc.Record(context.Background(), models.AuditActionCourseStatusChange, "course", "c1", nil)
	svc.Stop()
	assert.Empty(t, writer.entries)

	var nilSvc *AuditService
	nilSvc.Record(context.Background(), models.AuditActionCourseStatusChange, "course", "c1", nil)
	nilSvc.Start(context.Background())
	nilSvc.Stop()
}
