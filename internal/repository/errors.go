package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sumire/jobboard/internal/domain"
)

// mapDBError translates driver errors into domain sentinels. The driver error
// stays in the chain. Unrecognized errors are returned unchanged.
func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %w", domain.ErrConflict, pgErr)
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %w", domain.ErrNotFound, pgErr)
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, pgErr)
	}
	return err
}

// postedByConstraint is the foreign key from jobs to their publisher.
const postedByConstraint = "jobs_posted_by_fkey"

// mapJobInsertError is mapDBError for the jobs insert: a publisher that does not
// exist is a problem with the request, not a missing posting.
func mapJobInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation && pgErr.ConstraintName == postedByConstraint {
		return domain.NewValidationError("posted_by", "refers to an unknown user")
	}
	return mapDBError(err)
}
