package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teaching-load-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

var subColumns = []string{"id", "assignment_id", "year", "semester", "program", "assigned_by", "instructor_id",
	"course_id", "section", "lab_division", "workload_hours", "created_at", "updated_at"}

func sampleSub() *models.SubAssignment {
	return &models.SubAssignment{
		Year:          "2024",
		Semester:      "1",
		Program:       models.ProgramRegular,
		AssignedBy:    "head-1",
		InstructorID:  "inst-1",
		CourseID:      "course-1",
		Section:       "A",
		WorkloadHours: 5,
	}
}

func TestAssignmentRepositoryCommitSub(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO assignments").
		WithArgs(sqlmock.AnyArg(), "2024", "1", "Regular", "head-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("agg-1"))
	mock.ExpectExec("INSERT INTO sub_assignments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO instructor_commitments").
		WithArgs("inst-1", "2024", "1", "Regular", 5.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	sub := sampleSub()
	require.NoError(t, repo.CommitSub(context.Background(), sub))
	assert.Equal(t, "agg-1", sub.AssignmentID)
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, models.LabDivisionNo, sub.LabDivision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCommitSubDuplicateRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO assignments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("agg-1"))
	mock.ExpectExec("INSERT INTO sub_assignments").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "sub_assignments_period_slot_key"})
	mock.ExpectRollback()

	sub := sampleSub()
	err := repo.CommitSub(context.Background(), sub)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.Empty(t, sub.AssignmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCommitSubSerializationFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO assignments").
		WillReturnError(&pq.Error{Code: "40001"})
	mock.ExpectRollback()

	err := repo.CommitSub(context.Background(), sampleSub())
	assert.True(t, errors.Is(err, ErrWriteConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryReplaceSub(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	previous := sampleSub()
	previous.ID = "sub-1"
	previous.AssignmentID = "agg-1"
	updated := *previous
	updated.InstructorID = "inst-2"
	updated.WorkloadHours = 7

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE sub_assignments").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO instructor_commitments").
		WithArgs("inst-1", "2024", "1", "Regular", -5.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO instructor_commitments").
		WithArgs("inst-2", "2024", "1", "Regular", 7.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceSub(context.Background(), previous, &updated))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryRemoveSubPrunesAggregate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	sub := sampleSub()
	sub.ID = "sub-1"
	sub.AssignmentID = "agg-1"

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sub_assignments WHERE id = $1 AND assignment_id = $2")).
		WithArgs("sub-1", "agg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO instructor_commitments").
		WithArgs("inst-1", "2024", "1", "Regular", -5.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM assignments a").
		WithArgs("agg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	pruned, err := repo.RemoveSub(context.Background(), sub)
	require.NoError(t, err)
	assert.True(t, pruned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryRemoveSubMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sub_assignments").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.RemoveSub(context.Background(), &models.SubAssignment{ID: "x", AssignmentID: "y"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryListScopeNestsSubs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)
	now := time.Now()

	mock.ExpectQuery("FROM assignments").
		WithArgs("2024", "1", "Regular", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "year", "semester", "program", "assigned_by", "created_at", "updated_at"}).
			AddRow("agg-1", "2024", "1", "Regular", "head-1", now, now).
			AddRow("agg-2", "2024", "1", "Regular", "head-2", now, now))
	mock.ExpectQuery("FROM sub_assignments s").
		WillReturnRows(sqlmock.NewRows(subColumns).
			AddRow("sub-1", "agg-2", "2024", "1", "Regular", "head-2", "inst-1", "course-1", "A", "No", 5.0, now, now).
			AddRow("sub-2", "agg-2", "2024", "1", "Regular", "head-2", "inst-2", "course-1", "B", "Yes", 7.0, now, now))

	scope := models.AssignmentScope{Period: models.Period{Year: "2024", Semester: "1", Program: models.ProgramRegular}}
	aggregates, err := repo.ListScope(context.Background(), scope)
	require.NoError(t, err)
	require.Len(t, aggregates, 2)
	assert.Empty(t, aggregates[0].SubAssignments)
	require.Len(t, aggregates[1].SubAssignments, 2)
	assert.Equal(t, models.LabDivisionYes, aggregates[1].SubAssignments[1].LabDivision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryExistsAndSum(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)
	period := models.Period{Year: "2024", Semester: "1", Program: models.ProgramRegular}

	mock.ExpectQuery("SELECT 1 FROM sub_assignments").
		WithArgs("2024", "1", "Regular", "inst-1", "course-1", "A", "").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	exists, err := repo.ExistsInPeriod(context.Background(), period, "inst-1", "course-1", "A", "")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT 1 FROM sub_assignments").
		WithArgs("2024", "1", "Regular", "inst-1", "course-1", "A", "sub-1").
		WillReturnError(sql.ErrNoRows)
	exists, err = repo.ExistsInPeriod(context.Background(), period, "inst-1", "course-1", "A", "sub-1")
	require.NoError(t, err)
	assert.False(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(workload_hours), 0)")).
		WithArgs("inst-1", "2024", "1", "Regular", "").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(11.0))
	total, err := repo.SumWorkload(context.Background(), "inst-1", period, "")
	require.NoError(t, err)
	assert.Equal(t, 11.0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryFindSubNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery("FROM sub_assignments s WHERE s.id").
		WithArgs("sub-9", "agg-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindSub(context.Background(), "agg-1", "sub-9")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
