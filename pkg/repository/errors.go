package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes for integrity constraint violations.
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// Errors names the domain errors that database failures translate to.
// A nil entry leaves that class of failure unchanged.
type Errors struct {
	NotFound  error
	Duplicate error
	Invalid   error
}

// Map translates err. sql.ErrNoRows becomes NotFound, a unique violation
// becomes Duplicate, and check, not-null, and foreign key violations become
// Invalid wrapped with the constraint name. Other errors pass through.
func (e Errors) Map(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) && e.NotFound != nil {
		return e.NotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		if e.Duplicate != nil {
			return e.Duplicate
		}
	case pgCheckViolation, pgNotNullViolation, pgForeignKeyViolation:
		if e.Invalid != nil {
			return fmt.Errorf("%w: violates %s", e.Invalid, constraint(pgErr))
		}
	}

	return err
}

// MapError maps sql.ErrNoRows to notFoundErr and unique violations to
// duplicateErr.
func MapError(err error, notFoundErr, duplicateErr error) error {
	return Errors{NotFound: notFoundErr, Duplicate: duplicateErr}.Map(err)
}

func constraint(pgErr *pgconn.PgError) string {
	if pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	return pgErr.Code
}
