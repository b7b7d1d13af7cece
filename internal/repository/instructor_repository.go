package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/teaching-load-api/internal/models"
)

// InstructorRepository reads instructors together with their position exemption.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository constructs the repository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

// FindProfile loads an instructor and the exemption hours of their position.
func (r *InstructorRepository) FindProfile(ctx context.Context, id string) (*models.InstructorProfile, error) {
	const query = `
SELECT i.id, i.user_id, i.full_name, i.position_id, i.location, i.created_at, i.updated_at,
       p.name AS position_name, COALESCE(p.exemption_hours, 0) AS exemption_hours
FROM instructors i
LEFT JOIN positions p ON p.id = i.position_id
WHERE i.id = $1`
	var profile models.InstructorProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		err = translate(err)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get instructor profile: %w", err)
	}
	return &profile, nil
}

// ListCommitments returns the instructor's workload per period, newest first.
func (r *InstructorRepository) ListCommitments(ctx context.Context, instructorID string) ([]models.Commitment, error) {
	const query = `
SELECT instructor_id, year, semester, program, hours, updated_at
FROM instructor_commitments
WHERE instructor_id = $1
ORDER BY year DESC, semester DESC, program ASC`
	var commitments []models.Commitment
	if err := r.db.SelectContext(ctx, &commitments, query, instructorID); err != nil {
		return nil, fmt.Errorf("list instructor commitments: %w", err)
	}
	return commitments, nil
}
