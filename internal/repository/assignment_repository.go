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

const subAssignmentColumns = `s.id, s.assignment_id, s.year, s.semester, s.program, s.assigned_by, s.instructor_id,
       s.course_id, s.section, s.lab_division, s.workload_hours, s.created_at, s.updated_at`

// AssignmentRepository persists assignment aggregates, their sub-assignments and instructor commitments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// CommitSub stores a sub-assignment under its scope aggregate and adds its hours to the
// instructor commitment, all in one transaction. The aggregate is created on first use.
func (r *AssignmentRepository) CommitSub(ctx context.Context, sub *models.SubAssignment) error {
	if sub == nil {
		return fmt.Errorf("sub-assignment payload is nil")
	}
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	sub.LabDivision = models.NormalizeLabDivision(sub.LabDivision)

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		id, err := r.ensureAggregate(ctx, tx, sub, now)
		if err != nil {
			return err
		}
		sub.AssignmentID = id

		const insertQuery = `
INSERT INTO sub_assignments (id, assignment_id, year, semester, program, assigned_by, instructor_id, course_id,
                             section, lab_division, workload_hours, created_at, updated_at)
VALUES (:id, :assignment_id, :year, :semester, :program, :assigned_by, :instructor_id, :course_id,
        :section, :lab_division, :workload_hours, :created_at, :updated_at)`
		if _, err := sqlx.NamedExecContext(ctx, tx, insertQuery, sub); err != nil {
			return fmt.Errorf("insert sub-assignment: %w", err)
		}
		return r.adjustCommitment(ctx, tx, sub.InstructorID, sub.Period(), sub.WorkloadHours, now)
	})
	if err != nil {
		sub.AssignmentID = ""
		return err
	}
	return nil
}

func (r *AssignmentRepository) ensureAggregate(ctx context.Context, exec sqlx.ExtContext, sub *models.SubAssignment, now time.Time) (string, error) {
	const query = `
INSERT INTO assignments (id, year, semester, program, assigned_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
ON CONFLICT (year, semester, program, assigned_by) DO UPDATE SET updated_at = EXCLUDED.updated_at
RETURNING id`
	var id string
	if err := sqlx.GetContext(ctx, r.exec(exec), &id, query, uuid.NewString(), sub.Year, sub.Semester, sub.Program, sub.AssignedBy, now); err != nil {
		return "", fmt.Errorf("ensure assignment aggregate: %w", err)
	}
	return id, nil
}

func (r *AssignmentRepository) adjustCommitment(ctx context.Context, exec sqlx.ExtContext, instructorID string, period models.Period, delta float64, now time.Time) error {
	const query = `
INSERT INTO instructor_commitments (instructor_id, year, semester, program, hours, updated_at)
VALUES ($1, $2, $3, $4, GREATEST($5::numeric, 0), $6)
ON CONFLICT (instructor_id, year, semester, program)
DO UPDATE SET hours = GREATEST(instructor_commitments.hours + $5::numeric, 0), updated_at = EXCLUDED.updated_at`
	if _, err := r.exec(exec).ExecContext(ctx, query, instructorID, period.Year, period.Semester, period.Program, delta, now); err != nil {
		return fmt.Errorf("adjust instructor commitment: %w", err)
	}
	return nil
}

// ReplaceSub overwrites one sub-assignment in place and moves commitment hours from the
// previous binding to the updated one.
func (r *AssignmentRepository) ReplaceSub(ctx context.Context, previous, updated *models.SubAssignment) error {
	if previous == nil || updated == nil {
		return fmt.Errorf("sub-assignment payload is nil")
	}
	now := time.Now().UTC()
	updated.UpdatedAt = now
	updated.LabDivision = models.NormalizeLabDivision(updated.LabDivision)

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const query = `
UPDATE sub_assignments
SET instructor_id = :instructor_id, course_id = :course_id, section = :section,
    lab_division = :lab_division, workload_hours = :workload_hours, updated_at = :updated_at
WHERE id = :id AND assignment_id = :assignment_id`
		result, err := sqlx.NamedExecContext(ctx, tx, query, updated)
		if err != nil {
			return fmt.Errorf("update sub-assignment: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("check updated sub-assignment rows: %w", err)
		}
		if affected == 0 {
			return sql.ErrNoRows
		}
		if err := r.adjustCommitment(ctx, tx, previous.InstructorID, previous.Period(), -previous.WorkloadHours, now); err != nil {
			return err
		}
		return r.adjustCommitment(ctx, tx, updated.InstructorID, updated.Period(), updated.WorkloadHours, now)
	})
}

// RemoveSub deletes one sub-assignment, releases its hours and prunes the aggregate when it
// has no sub-assignments left. It reports whether the aggregate was pruned.
func (r *AssignmentRepository) RemoveSub(ctx context.Context, sub *models.SubAssignment) (bool, error) {
	if sub == nil {
		return false, fmt.Errorf("sub-assignment payload is nil")
	}
	pruned := false
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const deleteQuery = `DELETE FROM sub_assignments WHERE id = $1 AND assignment_id = $2`
		result, err := tx.ExecContext(ctx, deleteQuery, sub.ID, sub.AssignmentID)
		if err != nil {
			return fmt.Errorf("delete sub-assignment: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("check deleted sub-assignment rows: %w", err)
		}
		if affected == 0 {
			return sql.ErrNoRows
		}
		if err := r.adjustCommitment(ctx, tx, sub.InstructorID, sub.Period(), -sub.WorkloadHours, time.Now().UTC()); err != nil {
			return err
		}

		const pruneQuery = `
DELETE FROM assignments a
WHERE a.id = $1 AND NOT EXISTS (SELECT 1 FROM sub_assignments s WHERE s.assignment_id = a.id)`
		result, err = tx.ExecContext(ctx, pruneQuery, sub.AssignmentID)
		if err != nil {
			return fmt.Errorf("prune assignment aggregate: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil && n > 0 {
			pruned = true
		}
		return nil
	})
	return pruned, err
}

// FindSub loads one sub-assignment belonging to the given aggregate.
func (r *AssignmentRepository) FindSub(ctx context.Context, assignmentID, subID string) (*models.SubAssignment, error) {
	query := `SELECT ` + subAssignmentColumns + ` FROM sub_assignments s WHERE s.id = $1 AND s.assignment_id = $2`
	var sub models.SubAssignment
	if err := r.db.GetContext(ctx, &sub, query, subID, assignmentID); err != nil {
		err = translate(err)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get sub-assignment: %w", err)
	}
	return &sub, nil
}

// ListScope returns aggregates for a period, optionally narrowed to one operator, with their
// sub-assignments nested in creation order.
func (r *AssignmentRepository) ListScope(ctx context.Context, scope models.AssignmentScope) ([]models.Assignment, error) {
	const aggregateQuery = `
SELECT id, year, semester, program, assigned_by, created_at, updated_at
FROM assignments
WHERE year = $1 AND semester = $2 AND program = $3 AND ($4::text = '' OR assigned_by = $4::text)
ORDER BY created_at ASC, id ASC`
	var aggregates []models.Assignment
	if err := r.db.SelectContext(ctx, &aggregates, aggregateQuery, scope.Year, scope.Semester, scope.Program, scope.AssignedBy); err != nil {
		return nil, fmt.Errorf("list assignment aggregates: %w", err)
	}
	if len(aggregates) == 0 {
		return []models.Assignment{}, nil
	}

	ids := make([]string, len(aggregates))
	index := make(map[string]int, len(aggregates))
	for i := range aggregates {
		ids[i] = aggregates[i].ID
		index[aggregates[i].ID] = i
		aggregates[i].SubAssignments = []models.SubAssignment{}
	}

	subQuery := `SELECT ` + subAssignmentColumns + `
FROM sub_assignments s
WHERE s.assignment_id = ANY($1)
ORDER BY s.created_at ASC, s.id ASC`
	var subs []models.SubAssignment
	if err := r.db.SelectContext(ctx, &subs, subQuery, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list sub-assignments: %w", err)
	}
	for _, sub := range subs {
		if i, ok := index[sub.AssignmentID]; ok {
			aggregates[i].SubAssignments = append(aggregates[i].SubAssignments, sub)
		}
	}
	return aggregates, nil
}

// ListByInstructor returns every sub-assignment held by the instructor, newest period first.
func (r *AssignmentRepository) ListByInstructor(ctx context.Context, instructorID string) ([]models.SubAssignmentDetail, error) {
	query := `
SELECT ` + subAssignmentColumns + `,
       i.full_name AS instructor_name, c.code AS course_code, c.name AS course_name, c.chair
FROM sub_assignments s
JOIN instructors i ON i.id = s.instructor_id
JOIN courses c ON c.id = s.course_id
WHERE s.instructor_id = $1
ORDER BY s.year DESC, s.semester DESC, s.program ASC, c.code ASC, s.section ASC`
	var subs []models.SubAssignmentDetail
	if err := r.db.SelectContext(ctx, &subs, query, instructorID); err != nil {
		return nil, fmt.Errorf("list instructor sub-assignments: %w", err)
	}
	return subs, nil
}

// ListByChair returns sub-assignments on courses owned by, or handed to, the chair.
func (r *AssignmentRepository) ListByChair(ctx context.Context, chairID string) ([]models.SubAssignmentDetail, error) {
	query := `
SELECT ` + subAssignmentColumns + `,
       i.full_name AS instructor_name, c.code AS course_code, c.name AS course_name, c.chair
FROM sub_assignments s
JOIN instructors i ON i.id = s.instructor_id
JOIN courses c ON c.id = s.course_id
WHERE c.chair = $1 OR c.assigned_to = $1
ORDER BY s.year DESC, s.semester DESC, s.program ASC, c.code ASC, s.section ASC`
	var subs []models.SubAssignmentDetail
	if err := r.db.SelectContext(ctx, &subs, query, chairID); err != nil {
		return nil, fmt.Errorf("list chair sub-assignments: %w", err)
	}
	return subs, nil
}

// ExistsInPeriod checks whether the instructor/course/section tuple is already bound in the
// period under any aggregate. excludeID skips one sub-assignment, used when editing it.
func (r *AssignmentRepository) ExistsInPeriod(ctx context.Context, period models.Period, instructorID, courseID, section, excludeID string) (bool, error) {
	const query = `
SELECT 1 FROM sub_assignments
WHERE year = $1 AND semester = $2 AND program = $3 AND instructor_id = $4 AND course_id = $5 AND section = $6
  AND ($7::text = '' OR id::text <> $7::text)
LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, period.Year, period.Semester, period.Program, instructorID, courseID, section, excludeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check sub-assignment: %w", err)
	}
	return true, nil
}

// SumWorkload totals the instructor's committed hours in the period. excludeID skips one
// sub-assignment, used when editing it.
func (r *AssignmentRepository) SumWorkload(ctx context.Context, instructorID string, period models.Period, excludeID string) (float64, error) {
	const query = `
SELECT COALESCE(SUM(workload_hours), 0)
FROM sub_assignments
WHERE instructor_id = $1 AND year = $2 AND semester = $3 AND program = $4
  AND ($5::text = '' OR id::text <> $5::text)`
	var total float64
	if err := r.db.GetContext(ctx, &total, query, instructorID, period.Year, period.Semester, period.Program, excludeID); err != nil {
		return 0, fmt.Errorf("sum instructor workload: %w", err)
	}
	return total, nil
}
