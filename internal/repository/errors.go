package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Persistence errors surfaced to services.
var (
	ErrDuplicate        = errors.New("repository: duplicate key")
	ErrWriteConflict    = errors.New("repository: write conflict")
	ErrMissingReference = errors.New("repository: referenced row does not exist")
)

const (
	pqUniqueViolation      = "23505"
	pqForeignKeyViolation  = "23503"
	pqInvalidText          = "22P02"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// translate maps driver errors onto repository sentinels, keeping the original in the chain.
// An id that does not parse as a UUID cannot match any row, so 22P02 reads as sql.ErrNoRows.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch string(pqErr.Code) {
	case pqUniqueViolation:
		return fmt.Errorf("%w (%s): %w", ErrDuplicate, pqErr.Constraint, err)
	case pqForeignKeyViolation:
		return fmt.Errorf("%w (%s): %w", ErrMissingReference, pqErr.Constraint, err)
	case pqInvalidText:
		return fmt.Errorf("%w: %w", sql.ErrNoRows, err)
	case pqSerializationFailure, pqDeadlockDetected:
		return fmt.Errorf("%w: %w", ErrWriteConflict, err)
	}
	return err
}

type txBeginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// withTx runs fn inside a transaction, committing on success.
func withTx(ctx context.Context, db txBeginner, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", translate(err))
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return translate(err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", translate(err))
	}
	return nil
}
