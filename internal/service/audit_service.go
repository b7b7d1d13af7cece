package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/teaching-load-api/internal/models"
	"github.com/noah-isme/teaching-load-api/pkg/config"
	"github.com/noah-isme/teaching-load-api/pkg/jobs"
	"github.com/noah-isme/teaching-load-api/pkg/middleware/requestid"
)

const auditJobType = "audit_log"

type auditWriter interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// AuditService records mutations asynchronously. Failing to audit never fails the caller.
type AuditService struct {
	repo   auditWriter
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditService builds the audit writer and its worker queue.
func NewAuditService(repo auditWriter, cfg config.AuditConfig, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditService{repo: repo, logger: logger}
	s.queue = jobs.NewQueue("audit", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		Logger:     logger,
	})
	return s
}

// Start launches the audit workers.
func (s *AuditService) Start(ctx context.Context) {
	if s == nil {
		return
	}
	s.queue.Start(ctx)
}

// Stop flushes pending audit entries.
func (s *AuditService) Stop() {
	if s == nil {
		return
	}
	s.queue.Stop()
}

// Record enqueues an audit entry for the actor and request found in ctx.
func (s *AuditService) Record(ctx context.Context, action, resource, resourceID string, payload interface{}) {
	if s == nil {
		return
	}
	entry := &models.AuditLog{
		ID:        uuid.NewString(),
		Action:    action,
		Resource:  resource,
		CreatedAt: time.Now().UTC(),
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}
	if actor, ok := ActorFromContext(ctx); ok && actor.ID != "" {
		id := actor.ID
		entry.ActorID = &id
	}
	if rid := requestid.FromContext(ctx); rid != "" {
		entry.RequestID = &rid
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			s.logger.Warn("audit payload not encodable", zap.String("action", action), zap.Error(err))
		} else {
			entry.Payload = types.JSONText(raw)
		}
	}

	if err := s.queue.Enqueue(jobs.Job{ID: entry.ID, Type: auditJobType, Payload: entry}); err != nil {
		s.logger.Warn("audit entry dropped", zap.String("action", action), zap.String("resource_id", resourceID), zap.Error(err))
	}
}

func (s *AuditService) handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(*models.AuditLog)
	if !ok {
		s.logger.Error("unexpected audit job payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.repo.Create(ctx, entry)
}
