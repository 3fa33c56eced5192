package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "restaurant-service/common/errors"
)

// PostgreSQL SQLSTATE codes that signal a lost race rather than a broken store.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// translateError maps driver and gorm errors onto the application error kinds.
// Errors that already carry a kind pass through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.Wrap(apperrors.ErrNotFound, "", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.ConstraintViolation("duplicate key", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.ConstraintViolation("foreign key violation", err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return apperrors.ConstraintViolation("check constraint violation", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.StoreUnavailable(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.ConstraintViolation("duplicate key", err)
		case pgForeignKeyViolation:
			return apperrors.ConstraintViolation("foreign key violation", err)
		case pgCheckViolation:
			return apperrors.ConstraintViolation("check constraint violation", err)
		case pgSerializationFailure, pgDeadlockDetected:
			return apperrors.ConstraintViolation("serialization conflict", err)
		}
		return apperrors.StoreUnavailable(err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return apperrors.ConstraintViolation("duplicate key", err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return apperrors.ConstraintViolation("foreign key violation", err)
	case strings.Contains(msg, "database is locked"):
		return apperrors.ConstraintViolation("serialization conflict", err)
	}

	return apperrors.StoreUnavailable(err)
}
