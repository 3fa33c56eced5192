package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	apperrors "restaurant-service/common/errors"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want *apperrors.Error
	}{
		{"duplicate", gorm.ErrDuplicatedKey, apperrors.ErrConstraintViolation},
		{"foreign key", gorm.ErrForeignKeyViolated, apperrors.ErrConstraintViolation},
		{"pg unique", &pgconn.PgError{Code: "23505"}, apperrors.ErrConstraintViolation},
		{"pg serialization", &pgconn.PgError{Code: "40001"}, apperrors.ErrConstraintViolation},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}, apperrors.ErrConstraintViolation},
		{"pg other", &pgconn.PgError{Code: "08006"}, apperrors.ErrStoreUnavailable},
		{"sqlite unique", errors.New("UNIQUE constraint failed: orders.table_id"), apperrors.ErrConstraintViolation},
		{"sqlite fk", errors.New("FOREIGN KEY constraint failed"), apperrors.ErrConstraintViolation},
		{"not found", gorm.ErrRecordNotFound, apperrors.ErrNotFound},
		{"canceled", context.Canceled, apperrors.ErrStoreUnavailable},
		{"unknown", errors.New("connection reset"), apperrors.ErrStoreUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateError(tt.in), tt.want)
		})
	}
	assert.NoError(t, translateError(nil))
}
