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
	"github.com/noah-isme/teaching-load-api/pkg/lock"
	"github.com/noah-isme/teaching-load-api/pkg/logger"
)

const auditResourceSubAssignment = "sub_assignment"

type subAssignmentRepository interface {
	CommitSub(ctx context.Context, sub *models.SubAssignment) error
	ReplaceSub(ctx context.Context, previous, updated *models.SubAssignment) error
	RemoveSub(ctx context.Context, sub *models.SubAssignment) (bool, error)
	FindSub(ctx context.Context, assignmentID, subID string) (*models.SubAssignment, error)
}

// AssignmentStoreConfig bounds retries of transient write conflicts.
type AssignmentStoreConfig struct {
	WriteRetries int
	RetryBackoff time.Duration
}

// AssignmentStore serializes and persists sub-assignment mutations. Every write holds the
// locks of the instructor and of the slot in the period, and is validated against the state
// read while holding them.
type AssignmentStore struct {
	repo      subAssignmentRepository
	checker   *ConflictValidator
	locker    lock.Locker
	cache     *CacheService
	audit     *AuditService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       AssignmentStoreConfig
}

// NewAssignmentStore wires the store.
func NewAssignmentStore(
	repo subAssignmentRepository,
	checker *ConflictValidator,
	locker lock.Locker,
	cache *CacheService,
	audit *AuditService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg AssignmentStoreConfig,
) *AssignmentStore {
	if locker == nil {
		locker = lock.NewMemoryLocker(0)
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WriteRetries < 0 {
		cfg.WriteRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 20 * time.Millisecond
	}
	return &AssignmentStore{
		repo:      repo,
		checker:   checker,
		locker:    locker,
		cache:     cache,
		audit:     audit,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

func instructorLockKey(instructorID string, period models.Period) string {
	return "instructor:" + instructorID + ":" + period.Key()
}

func slotLockKey(courseID, section string, period models.Period) string {
	return "slot:" + courseID + ":" + section + ":" + period.Key()
}

// Commit validates the candidate against current state and persists it under the
// operator's aggregate for the period.
func (s *AssignmentStore) Commit(ctx context.Context, c Candidate, assignedBy, mode string) (*models.SubAssignment, error) {
	c = c.normalize()
	assignedBy = strings.TrimSpace(assignedBy)
	if assignedBy == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "assignedBy is required")
	}

	release, err := s.lock(ctx, instructorLockKey(c.InstructorID, c.Period), slotLockKey(c.CourseID, c.Section, c.Period))
	if err != nil {
		return nil, err
	}
	defer release()

	var sub *models.SubAssignment
	err = s.withRetry(ctx, "commit", func() error {
		verdict, err := s.checker.Validate(ctx, c)
		if err != nil {
			return err
		}
		sub = &models.SubAssignment{
			Year:          c.Period.Year,
			Semester:      c.Period.Semester,
			Program:       c.Period.Program,
			AssignedBy:    assignedBy,
			InstructorID:  c.InstructorID,
			CourseID:      c.CourseID,
			Section:       c.Section,
			LabDivision:   c.LabDivision,
			WorkloadHours: verdict.Hours,
		}
		return s.persistErr(s.repo.CommitSub(ctx, sub), "failed to persist sub-assignment")
	})
	if err != nil {
		s.reject(ctx, err, c)
		return nil, err
	}

	s.metrics.AssignmentCommitted(mode)
	s.cache.InvalidatePeriod(ctx, c.Period)
	s.audit.Record(ctx, models.AuditActionAssignmentCreate, auditResourceSubAssignment, sub.ID, map[string]interface{}{
		"mode":          mode,
		"assignment_id": sub.AssignmentID,
		"after":         sub,
	})
	return sub, nil
}

// Update edits one sub-assignment in place, leaving its siblings untouched.
func (s *AssignmentStore) Update(ctx context.Context, parentID, subID string, req dto.UpdateSubAssignmentRequest) (*models.SubAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sub-assignment payload")
	}
	current, err := s.findSub(ctx, parentID, subID)
	if err != nil {
		return nil, err
	}

	next := mergeSubUpdate(*current, req)
	period := current.Period()
	release, err := s.lock(ctx,
		instructorLockKey(current.InstructorID, period),
		instructorLockKey(next.InstructorID, period),
		slotLockKey(current.CourseID, current.Section, period),
		slotLockKey(next.CourseID, next.Section, period),
	)
	if err != nil {
		return nil, err
	}
	defer release()

	var updated models.SubAssignment
	err = s.withRetry(ctx, "update", func() error {
		// Re-read under the lock; a concurrent edit may have landed since the first read.
		latest, err := s.findSub(ctx, parentID, subID)
		if err != nil {
			return err
		}
		if latest.InstructorID != current.InstructorID || latest.CourseID != current.CourseID || latest.Section != current.Section {
			// The held locks no longer cover the stored binding, so retrying here cannot succeed.
			return appErrors.Wrap(errBindingMoved, appErrors.ErrWriteConflict.Code, appErrors.ErrWriteConflict.Status, "sub-assignment changed concurrently, retry later")
		}
		current = latest
		target := mergeSubUpdate(*latest, req)
		candidate := Candidate{
			Period:       period,
			InstructorID: target.InstructorID,
			CourseID:     target.CourseID,
			Section:      target.Section,
			LabDivision:  target.LabDivision,
			ExcludeSubID: latest.ID,
			KeepsCourse:  target.CourseID == latest.CourseID,
		}
		if target.CourseID == latest.CourseID && target.LabDivision == latest.LabDivision {
			kept := latest.WorkloadHours
			candidate.Hours = &kept
		}
		verdict, err := s.checker.Validate(ctx, candidate)
		if err != nil {
			return err
		}
		target.WorkloadHours = verdict.Hours
		updated = target
		return s.persistErr(s.repo.ReplaceSub(ctx, latest, &updated), "failed to update sub-assignment")
	})
	if err != nil {
		s.reject(ctx, err, Candidate{InstructorID: next.InstructorID, CourseID: next.CourseID, Section: next.Section})
		return nil, err
	}

	s.cache.InvalidatePeriod(ctx, period)
	s.audit.Record(ctx, models.AuditActionAssignmentUpdate, auditResourceSubAssignment, updated.ID, map[string]interface{}{
		"assignment_id": updated.AssignmentID,
		"before":        current,
		"after":         updated,
	})
	return &updated, nil
}

// Delete removes one sub-assignment and releases its hours from the instructor commitment.
func (s *AssignmentStore) Delete(ctx context.Context, parentID, subID string) (*models.SubAssignment, error) {
	current, err := s.findSub(ctx, parentID, subID)
	if err != nil {
		return nil, err
	}
	period := current.Period()
	release, err := s.lock(ctx,
		instructorLockKey(current.InstructorID, period),
		slotLockKey(current.CourseID, current.Section, period),
	)
	if err != nil {
		return nil, err
	}
	defer release()

	var pruned bool
	err = s.withRetry(ctx, "delete", func() error {
		latest, err := s.findSub(ctx, parentID, subID)
		if err != nil {
			return err
		}
		current = latest
		pruned, err = s.repo.RemoveSub(ctx, latest)
		return s.persistErr(err, "failed to delete sub-assignment")
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidatePeriod(ctx, period)
	s.audit.Record(ctx, models.AuditActionAssignmentDelete, auditResourceSubAssignment, current.ID, map[string]interface{}{
		"assignment_id":     current.AssignmentID,
		"before":            current,
		"aggregate_removed": pruned,
	})
	return current, nil
}

func mergeSubUpdate(sub models.SubAssignment, req dto.UpdateSubAssignmentRequest) models.SubAssignment {
	if req.InstructorID != nil {
		sub.InstructorID = strings.TrimSpace(*req.InstructorID)
	}
	if req.CourseID != nil {
		sub.CourseID = strings.TrimSpace(*req.CourseID)
	}
	if req.Section != nil {
		sub.Section = strings.TrimSpace(*req.Section)
	}
	if req.LabDivision != nil {
		sub.LabDivision = models.NormalizeLabDivision(*req.LabDivision)
	}
	return sub
}

func (s *AssignmentStore) findSub(ctx context.Context, parentID, subID string) (*models.SubAssignment, error) {
	sub, err := s.repo.FindSub(ctx, parentID, subID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sub-assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sub-assignment")
	}
	return sub, nil
}

func (s *AssignmentStore) lock(ctx context.Context, keys ...string) (lock.Release, error) {
	start := time.Now()
	release, err := s.locker.Lock(ctx, keys...)
	s.metrics.ObserveLockWait(time.Since(start))
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, appErrors.Wrap(err, appErrors.ErrWriteConflict.Code, appErrors.ErrWriteConflict.Status, "assignment resources busy, retry later")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire assignment locks")
	}
	return release, nil
}

// persistErr keeps repository write conflicts raw so withRetry can retry them.
func (s *AssignmentStore) persistErr(err error, message string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrWriteConflict):
		return err
	case errors.Is(err, repository.ErrDuplicate):
		return appErrors.Wrap(err, appErrors.ErrDuplicateAssignment.Code, appErrors.ErrDuplicateAssignment.Status, appErrors.ErrDuplicateAssignment.Message)
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "sub-assignment not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

var errBindingMoved = errors.New("sub-assignment binding moved")

func (s *AssignmentStore) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 0; attempt <= s.cfg.WriteRetries; attempt++ {
		err = fn()
		if errors.Is(err, errBindingMoved) {
			return err
		}
		if !errors.Is(err, repository.ErrWriteConflict) && !appErrors.HasCode(err, appErrors.ErrWriteConflict.Code) {
			return err
		}
		if attempt == s.cfg.WriteRetries {
			break
		}
		logger.ForContext(ctx, s.logger).Warn("assignment write conflict, retrying", zap.String("op", op), zap.Int("attempt", attempt+1), zap.Error(err))
		timer := time.NewTimer(s.cfg.RetryBackoff * time.Duration(attempt+1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return appErrors.Wrap(ctx.Err(), appErrors.ErrWriteConflict.Code, appErrors.ErrWriteConflict.Status, appErrors.ErrWriteConflict.Message)
		case <-timer.C:
		}
	}
	if appErrors.HasCode(err, appErrors.ErrWriteConflict.Code) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrWriteConflict.Code, appErrors.ErrWriteConflict.Status, appErrors.ErrWriteConflict.Message)
}

func (s *AssignmentStore) reject(ctx context.Context, err error, c Candidate) {
	e := appErrors.FromError(err)
	log := logger.ForContext(ctx, s.logger)
	if isRejection(err) {
		s.metrics.AssignmentRejected(e.Code)
		log.Debug("assignment candidate rejected",
			zap.String("kind", e.Code),
			zap.String("instructor_id", c.InstructorID),
			zap.String("course_id", c.CourseID),
			zap.String("section", c.Section),
		)
		return
	}
	log.Error("assignment write failed", zap.String("instructor_id", c.InstructorID), zap.String("course_id", c.CourseID), zap.Error(err))
}
