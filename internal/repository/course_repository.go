package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/teaching-load-api/internal/models"
)

const courseColumns = `id, code, name, department, chair, curriculum_year, curriculum_semester, lecture_hours, lab_hours,
       tutorial_hours, credit_hours, status, assigned_to, created_at, updated_at`

// CourseRepository reads courses and applies lifecycle transitions.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByID loads one course.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		err = translate(err)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return &course, nil
}

// FindByIDs loads the listed courses keyed by id; unknown ids are absent from the map.
func (r *CourseRepository) FindByIDs(ctx context.Context, ids []string) (map[string]models.Course, error) {
	result := make(map[string]models.Course, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id::text = ANY($1)`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	for _, c := range courses {
		result[c.ID] = c
	}
	return result, nil
}

// UpdateStatus moves a course from one status to another. The update only applies when the
// course is still in the expected status; otherwise ErrWriteConflict is returned.
func (r *CourseRepository) UpdateStatus(ctx context.Context, id string, from, to models.CourseStatus, assignedTo *string) error {
	const query = `
UPDATE courses SET status = $3, assigned_to = $4, updated_at = $5
WHERE id = $1 AND status = $2`
	result, err := r.db.ExecContext(ctx, query, id, from, to, assignedTo, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update course status: %w", translate(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated course rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("course %s left status %s: %w", id, from, ErrWriteConflict)
	}
	return nil
}
