package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/teaching-load-api/internal/dto"
	"github.com/noah-isme/teaching-load-api/internal/models"
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
)

type assignmentReader interface {
	ListScope(ctx context.Context, scope models.AssignmentScope) ([]models.Assignment, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]models.SubAssignmentDetail, error)
	ListByChair(ctx context.Context, chairID string) ([]models.SubAssignmentDetail, error)
}

type commitmentReader interface {
	ListCommitments(ctx context.Context, instructorID string) ([]models.Commitment, error)
}

// AssignmentQueryService serves the read views of assignments.
type AssignmentQueryService struct {
	reader      assignmentReader
	commitments commitmentReader
	capacity    capacityLookup
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentQueryService wires the read side.
func NewAssignmentQueryService(reader assignmentReader, commitments commitmentReader, capacity capacityLookup, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AssignmentQueryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentQueryService{reader: reader, commitments: commitments, capacity: capacity, cache: cache, validator: validate, logger: logger}
}

// ParsePeriod validates a period query.
func ParsePeriod(v *validator.Validate, q dto.PeriodQuery) (models.Period, error) {
	if err := v.Struct(q); err != nil {
		return models.Period{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "year and program are required")
	}
	program, ok := models.ParseProgram(q.Program)
	if !ok {
		return models.Period{}, appErrors.Clone(appErrors.ErrValidation, "unknown program "+q.Program)
	}
	return models.Period{Year: q.Year, Semester: q.Semester, Program: program}.Normalize(), nil
}

// Scope returns the aggregates of a period with their nested sub-assignments. The result is
// served from cache when caching is enabled.
func (s *AssignmentQueryService) Scope(ctx context.Context, q dto.AssignmentScopeQuery) ([]models.Assignment, bool, error) {
	period, err := ParsePeriod(s.validator, dto.PeriodQuery{Year: q.Year, Semester: q.Semester, Program: q.Program})
	if err != nil {
		return nil, false, err
	}
	scope := models.AssignmentScope{Period: period, AssignedBy: strings.TrimSpace(q.AssignedBy)}

	key := ScopeCacheKey(scope)
	var cached []models.Assignment
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}

	aggregates, err := s.reader.ListScope(ctx, scope)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	_ = s.cache.Set(ctx, key, aggregates, 0)
	return aggregates, false, nil
}

// ByInstructor lists every sub-assignment held by the instructor.
func (s *AssignmentQueryService) ByInstructor(ctx context.Context, instructorID string) ([]models.SubAssignmentDetail, error) {
	subs, err := s.reader.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructor assignments")
	}
	if subs == nil {
		subs = []models.SubAssignmentDetail{}
	}
	return subs, nil
}

// ByChair lists sub-assignments on courses of the chair.
func (s *AssignmentQueryService) ByChair(ctx context.Context, chairID string) ([]models.SubAssignmentDetail, error) {
	subs, err := s.reader.ListByChair(ctx, chairID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list chair assignments")
	}
	if subs == nil {
		subs = []models.SubAssignmentDetail{}
	}
	return subs, nil
}

// InstructorCapacity reports remaining capacity for a period plus the instructor's commitments.
func (s *AssignmentQueryService) InstructorCapacity(ctx context.Context, instructorID string, q dto.PeriodQuery) (*models.Capacity, []models.Commitment, error) {
	period, err := ParsePeriod(s.validator, q)
	if err != nil {
		return nil, nil, err
	}
	capacity, err := s.capacity.Remaining(ctx, instructorID, period)
	if err != nil {
		return nil, nil, err
	}
	commitments, err := s.commitments.ListCommitments(ctx, instructorID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list commitments")
	}
	if commitments == nil {
		commitments = []models.Commitment{}
	}
	return capacity, commitments, nil
}
