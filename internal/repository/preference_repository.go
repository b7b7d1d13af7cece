package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/teaching-load-api/internal/models"
)

// PreferenceRepository persists ranked course preferences.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository constructs the repository.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Replace supersedes any earlier submission of the instructor for the same period.
func (r *PreferenceRepository) Replace(ctx context.Context, pref *models.Preference) error {
	if pref == nil {
		return fmt.Errorf("preference payload is nil")
	}
	pref.ID = uuid.NewString()
	if pref.SubmittedAt.IsZero() {
		pref.SubmittedAt = time.Now().UTC()
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const deleteQuery = `DELETE FROM preferences WHERE instructor_id = $1 AND year = $2 AND semester = $3 AND program = $4`
		if _, err := tx.ExecContext(ctx, deleteQuery, pref.InstructorID, pref.Year, pref.Semester, pref.Program); err != nil {
			return fmt.Errorf("delete superseded preference: %w", err)
		}

		const insertQuery = `
INSERT INTO preferences (id, instructor_id, year, semester, program, submitted_at)
VALUES (:id, :instructor_id, :year, :semester, :program, :submitted_at)`
		if _, err := sqlx.NamedExecContext(ctx, tx, insertQuery, pref); err != nil {
			return fmt.Errorf("insert preference: %w", err)
		}

		const itemQuery = `INSERT INTO preference_items (preference_id, course_id, rank) VALUES ($1, $2, $3)`
		for i := range pref.Items {
			pref.Items[i].PreferenceID = pref.ID
			if _, err := tx.ExecContext(ctx, itemQuery, pref.ID, pref.Items[i].CourseID, pref.Items[i].Rank); err != nil {
				return fmt.Errorf("insert preference item for course %s: %w", pref.Items[i].CourseID, err)
			}
		}
		return nil
	})
}

// FindByInstructor loads the instructor's current submission for the period.
func (r *PreferenceRepository) FindByInstructor(ctx context.Context, instructorID string, period models.Period) (*models.Preference, error) {
	const query = `
SELECT id, instructor_id, year, semester, program, submitted_at
FROM preferences
WHERE instructor_id = $1 AND year = $2 AND semester = $3 AND program = $4`
	var pref models.Preference
	if err := r.db.GetContext(ctx, &pref, query, instructorID, period.Year, period.Semester, period.Program); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get preference: %w", err)
	}

	const itemQuery = `SELECT preference_id, course_id, rank FROM preference_items WHERE preference_id = $1 ORDER BY rank ASC`
	if err := r.db.SelectContext(ctx, &pref.Items, itemQuery, pref.ID); err != nil {
		return nil, fmt.Errorf("list preference items: %w", err)
	}
	return &pref, nil
}

// Delete removes a submission and its items.
func (r *PreferenceRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM preferences WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete preference: %w", translate(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted preference rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListRanks returns every ranked item submitted for the period by the listed instructors.
func (r *PreferenceRepository) ListRanks(ctx context.Context, period models.Period, instructorIDs []string) ([]models.RankedItem, error) {
	if len(instructorIDs) == 0 {
		return nil, nil
	}
	const query = `
SELECT p.instructor_id, pi.course_id, pi.rank
FROM preferences p
JOIN preference_items pi ON pi.preference_id = p.id
WHERE p.year = $1 AND p.semester = $2 AND p.program = $3 AND p.instructor_id::text = ANY($4)
ORDER BY p.instructor_id ASC, pi.rank ASC`
	var items []models.RankedItem
	if err := r.db.SelectContext(ctx, &items, query, period.Year, period.Semester, period.Program, pq.Array(instructorIDs)); err != nil {
		return nil, fmt.Errorf("list preference ranks: %w", err)
	}
	return items, nil
}
