package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "orders_pending_user_uidx"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.Equal(t, "orders_pending_user_uidx", ConstraintName(unique))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.Empty(t, ConstraintName(errors.New("boom")))
}

func TestIsInvalidValue(t *testing.T) {
	for _, code := range []string{"23514", "22001", "22003"} {
		assert.True(t, IsInvalidValue(fmt.Errorf("upsert: %w", &pgconn.PgError{Code: code})), code)
	}
	assert.False(t, IsInvalidValue(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsInvalidValue(errors.New("boom")))
}
