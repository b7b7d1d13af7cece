package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/teaching-load-api/internal/models"
)

// ComplaintRepository persists complaints raised against sub-assignments.
type ComplaintRepository struct {
	db *sqlx.DB
}

// NewComplaintRepository constructs the repository.
func NewComplaintRepository(db *sqlx.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// Create inserts a pending complaint.
func (r *ComplaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	if complaint.ID == "" {
		complaint.ID = uuid.NewString()
	}
	if complaint.Status == "" {
		complaint.Status = models.ComplaintPending
	}
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = time.Now().UTC()
	}
	const query = `
INSERT INTO complaints (id, assignment_id, sub_assignment_id, reason, status, filed_by, created_at)
VALUES (:id, :assignment_id, :sub_assignment_id, :reason, :status, :filed_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, complaint); err != nil {
		return fmt.Errorf("create complaint: %w", translate(err))
	}
	return nil
}

// FindByID loads one complaint.
func (r *ComplaintRepository) FindByID(ctx context.Context, id string) (*models.Complaint, error) {
	const query = `
SELECT id, assignment_id, sub_assignment_id, reason, status, filed_by, resolved_by, resolved_at, created_at
FROM complaints WHERE id = $1`
	var complaint models.Complaint
	if err := r.db.GetContext(ctx, &complaint, query, id); err != nil {
		err = translate(err)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get complaint: %w", err)
	}
	return &complaint, nil
}

// List returns complaints matching the filter with the total count.
func (r *ComplaintRepository) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.AssignmentID != "" {
		args = append(args, filter.AssignmentID)
		where = append(where, fmt.Sprintf("assignment_id = $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM complaints"+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("count complaints: %w", err)
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	args = append(args, size, (page-1)*size)
	query := fmt.Sprintf(`
SELECT id, assignment_id, sub_assignment_id, reason, status, filed_by, resolved_by, resolved_at, created_at
FROM complaints%s
ORDER BY created_at DESC
LIMIT $%d OFFSET $%d`, clause, len(args)-1, len(args))

	var complaints []models.Complaint
	if err := r.db.SelectContext(ctx, &complaints, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list complaints: %w", err)
	}
	return complaints, total, nil
}

// Resolve closes a pending complaint. A complaint already closed yields sql.ErrNoRows.
func (r *ComplaintRepository) Resolve(ctx context.Context, id string, status models.ComplaintStatus, resolvedBy string, at time.Time) error {
	const query = `
UPDATE complaints SET status = $2, resolved_by = $3, resolved_at = $4
WHERE id = $1 AND status = 'Pending'`
	result, err := r.db.ExecContext(ctx, query, id, status, resolvedBy, at)
	if err != nil {
		return fmt.Errorf("resolve complaint: %w", translate(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check resolved complaint rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
