// internal/repository/errors.go
package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// DuplicateError reports a unique-constraint violation. The constraint name lets
// callers tell a payload collision (double activation) apart from a display-token
// collision (retryable).
type DuplicateError struct {
	Constraint string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate key on constraint %q", e.Constraint)
}

// translateError maps driver errors to repository errors. The gorm postgres
// driver surfaces unique violations as *pgconn.PgError with SQLSTATE 23505.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return &DuplicateError{Constraint: pgErr.ConstraintName}
	}
	return err
}
