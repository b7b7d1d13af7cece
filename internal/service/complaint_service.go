package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/teaching-load-api/internal/dto"
	"github.com/noah-isme/teaching-load-api/internal/models"
	"github.com/noah-isme/teaching-load-api/internal/repository"
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
)

type complaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	FindByID(ctx context.Context, id string) (*models.Complaint, error)
	List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error)
	Resolve(ctx context.Context, id string, status models.ComplaintStatus, resolvedBy string, at time.Time) error
}

type subAssignmentFinder interface {
	FindSub(ctx context.Context, assignmentID, subID string) (*models.SubAssignment, error)
}

// ComplaintService records complaints against sub-assignments. It never changes assignments.
type ComplaintService struct {
	complaints complaintRepository
	subs       subAssignmentFinder
	audit      *AuditService
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewComplaintService wires the service.
func NewComplaintService(complaints complaintRepository, subs subAssignmentFinder, audit *AuditService, validate *validator.Validate, logger *zap.Logger) *ComplaintService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplaintService{
		complaints: complaints,
		subs:       subs,
		audit:      audit,
		validator:  validate,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create files a pending complaint.
func (s *ComplaintService) Create(ctx context.Context, actor models.Actor, req dto.CreateComplaintRequest) (*models.Complaint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid complaint payload")
	}
	if _, err := s.subs.FindSub(ctx, req.AssignmentID, req.SubAssignmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sub-assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sub-assignment")
	}

	complaint := &models.Complaint{
		AssignmentID:    req.AssignmentID,
		SubAssignmentID: req.SubAssignmentID,
		Reason:          strings.TrimSpace(req.Reason),
		Status:          models.ComplaintPending,
		FiledBy:         actor.ID,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "sub-assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create complaint")
	}
	return complaint, nil
}

// List returns complaints matching the query with the total count.
func (s *ComplaintService) List(ctx context.Context, q dto.ComplaintQuery) ([]models.Complaint, int, error) {
	filter := models.ComplaintFilter{
		Status:       models.ComplaintStatus(q.Status),
		AssignmentID: q.AssignmentID,
		Page:         q.Page,
		PageSize:     q.PageSize,
	}
	switch filter.Status {
	case "", models.ComplaintPending, models.ComplaintResolved, models.ComplaintRejected:
	default:
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, "unknown complaint status")
	}
	items, total, err := s.complaints.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list complaints")
	}
	if items == nil {
		items = []models.Complaint{}
	}
	return items, total, nil
}

// Resolve closes a pending complaint, stamping the resolver and time.
func (s *ComplaintService) Resolve(ctx context.Context, actor models.Actor, id string, req dto.ResolveComplaintRequest) (*models.Complaint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "status must be Resolved or Rejected")
	}
	complaint, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "complaint not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load complaint")
	}
	if complaint.Status != models.ComplaintPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatusTransition, "complaint already closed")
	}

	at := s.now()
	if err := s.complaints.Resolve(ctx, id, req.Status, actor.ID, at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidStatusTransition, "complaint already closed")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve complaint")
	}
	complaint.Status = req.Status
	complaint.ResolvedBy = &actor.ID
	complaint.ResolvedAt = &at

	s.audit.Record(ctx, models.AuditActionComplaintResolve, "complaint", id, map[string]interface{}{"status": req.Status})
	return complaint, nil
}
