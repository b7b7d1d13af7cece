package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/noah-isme/teaching-load-api/internal/models"
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
)

type instructorReader interface {
	FindProfile(ctx context.Context, id string) (*models.InstructorProfile, error)
}

type workloadReader interface {
	SumWorkload(ctx context.Context, instructorID string, period models.Period, excludeID string) (float64, error)
}

// CapacityResolver computes how many hours an instructor can still take on in a period.
type CapacityResolver struct {
	instructors instructorReader
	workloads   workloadReader
	policy      WorkloadPolicy
}

// NewCapacityResolver constructs the resolver.
func NewCapacityResolver(instructors instructorReader, workloads workloadReader, policy WorkloadPolicy) *CapacityResolver {
	return &CapacityResolver{instructors: instructors, workloads: workloads, policy: policy}
}

// Policy exposes the workload policy in use.
func (r *CapacityResolver) Policy() WorkloadPolicy {
	return r.policy
}

// Remaining resolves the instructor's capacity for the period. It never writes.
func (r *CapacityResolver) Remaining(ctx context.Context, instructorID string, period models.Period) (*models.Capacity, error) {
	return r.remaining(ctx, instructorID, period.Normalize(), "")
}

func (r *CapacityResolver) remaining(ctx context.Context, instructorID string, period models.Period, excludeSubID string) (*models.Capacity, error) {
	base, ok := r.policy.BaseHoursFor(period.Program)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown program "+string(period.Program))
	}

	profile, err := r.instructors.FindProfile(ctx, instructorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}

	committed, err := r.workloads.SumWorkload(ctx, instructorID, period, excludeSubID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load committed workload")
	}

	capacity := roundHours(base - profile.ExemptionHours)
	return &models.Capacity{
		InstructorID:   instructorID,
		Period:         period,
		BaseHours:      base,
		ExemptionHours: profile.ExemptionHours,
		Capacity:       capacity,
		Committed:      roundHours(committed),
		Remaining:      roundHours(capacity - committed),
	}, nil
}
