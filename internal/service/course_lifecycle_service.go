package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/teaching-load-api/internal/dto"
	"github.com/noah-isme/teaching-load-api/internal/models"
	"github.com/noah-isme/teaching-load-api/internal/repository"
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
)

type courseStatusRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	UpdateStatus(ctx context.Context, id string, from, to models.CourseStatus, assignedTo *string) error
}

type transitionTable map[models.CourseStatus][]models.CourseStatus

var (
	facultyTransitions = transitionTable{
		models.CourseStatusDraft:     {models.CourseStatusAssigned, models.CourseStatusArchived},
		models.CourseStatusAssigned:  {models.CourseStatusDraft, models.CourseStatusArchived, models.CourseStatusActive},
		models.CourseStatusActive:    {models.CourseStatusAssigned, models.CourseStatusDraft, models.CourseStatusArchived, models.CourseStatusCompleted},
		models.CourseStatusArchived:  {models.CourseStatusDraft, models.CourseStatusAssigned},
		models.CourseStatusCompleted: {models.CourseStatusArchived, models.CourseStatusAssigned, models.CourseStatusDraft},
	}
	chairTransitions = transitionTable{
		models.CourseStatusActive:   {models.CourseStatusAssigned, models.CourseStatusCompleted},
		models.CourseStatusAssigned: {models.CourseStatusActive},
	}
	roleTransitions = map[models.Role]transitionTable{
		models.RoleFaculty:       facultyTransitions,
		models.RoleSuperAdmin:    facultyTransitions,
		models.RoleChair:         chairTransitions,
		models.RoleCentralOffice: chairTransitions,
	}
)

// CanTransition reports whether role may move a course from one status to another.
func CanTransition(role models.Role, from, to models.CourseStatus) bool {
	for _, next := range roleTransitions[role][from] {
		if next == to {
			return true
		}
	}
	return false
}

// CourseLifecycleService applies role-scoped bulk status transitions.
type CourseLifecycleService struct {
	courses   courseStatusRepository
	audit     *AuditService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseLifecycleService wires the lifecycle.
func NewCourseLifecycleService(courses courseStatusRepository, audit *AuditService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CourseLifecycleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseLifecycleService{courses: courses, audit: audit, metrics: metrics, validator: validate, logger: logger}
}

// BulkUpdate moves every listed course to updates.status.
func (s *CourseLifecycleService) BulkUpdate(ctx context.Context, actor models.Actor, req dto.CourseTransitionRequest) ([]dto.CourseTransitionResult, error) {
	if !req.Updates.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "updates.status must be one of draft, assigned, active, completed, archived")
	}
	return s.transition(ctx, actor, req, req.Updates.Status)
}

// Assign publishes courses to the assigned stage.
func (s *CourseLifecycleService) Assign(ctx context.Context, actor models.Actor, req dto.CourseTransitionRequest) ([]dto.CourseTransitionResult, error) {
	return s.transition(ctx, actor, req, models.CourseStatusAssigned)
}

// Unassign reverts courses to draft, clearing their chair reference.
func (s *CourseLifecycleService) Unassign(ctx context.Context, actor models.Actor, req dto.CourseTransitionRequest) ([]dto.CourseTransitionResult, error) {
	return s.transition(ctx, actor, req, models.CourseStatusDraft)
}

// transition handles each course on its own; one failure never rolls back the others.
func (s *CourseLifecycleService) transition(ctx context.Context, actor models.Actor, req dto.CourseTransitionRequest, to models.CourseStatus) ([]dto.CourseTransitionResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course transition payload")
	}
	if actor.ID == "" {
		actor.ID = strings.TrimSpace(req.ActionBy)
	}
	if _, ok := roleTransitions[actor.Role]; !ok {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role cannot change course status")
	}

	results := make([]dto.CourseTransitionResult, 0, len(req.CourseIDs))
	for _, id := range uniqueIDs(req.CourseIDs) {
		result := dto.CourseTransitionResult{CourseID: id, To: to}
		from, err := s.transitionOne(ctx, actor, id, to, req.Updates.AssignedTo)
		result.From = from
		if err != nil {
			result.Error = toItemError(err)
		} else {
			result.Success = true
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *CourseLifecycleService) transitionOne(ctx context.Context, actor models.Actor, id string, to models.CourseStatus, assignedTo *string) (models.CourseStatus, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	from := course.Status

	if actor.Role.ChairLevel() && (course.AssignedTo == nil || *course.AssignedTo != actor.ID) {
		return from, appErrors.Clone(appErrors.ErrForbidden, "course is not assigned to this chair")
	}
	if !CanTransition(actor.Role, from, to) {
		return from, appErrors.Clone(appErrors.ErrInvalidStatusTransition, fmt.Sprintf("%s cannot move course from %s to %s", actor.Role, from, to))
	}

	nextAssignedTo := course.AssignedTo
	switch {
	case to == models.CourseStatusArchived || to == models.CourseStatusDraft:
		nextAssignedTo = nil
	case actor.Role.FacultyLevel() && assignedTo != nil:
		trimmed := strings.TrimSpace(*assignedTo)
		if trimmed == "" {
			nextAssignedTo = nil
		} else {
			nextAssignedTo = &trimmed
		}
	}

	if err := s.courses.UpdateStatus(ctx, id, from, to, nextAssignedTo); err != nil {
		if errors.Is(err, repository.ErrWriteConflict) {
			return from, appErrors.Wrap(err, appErrors.ErrWriteConflict.Code, appErrors.ErrWriteConflict.Status, "course status changed concurrently, retry later")
		}
		return from, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course status")
	}

	s.metrics.CourseTransition(string(from), string(to))
	s.audit.Record(ctx, models.AuditActionCourseStatusChange, "course", id, map[string]interface{}{
		"from":        from,
		"to":          to,
		"assigned_to": nextAssignedTo,
		"role":        actor.Role,
	})
	return from, nil
}
