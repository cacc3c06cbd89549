package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "restocks_dedup_key"}
	assert.True(t, isUniqueViolation(dup))
	assert.True(t, isUniqueViolation(fmt.Errorf("create restock: %w", dup)),
		"debe detectarse a través de envolturas")

	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}), "otra clase de constraint no cuenta")
	assert.False(t, isUniqueViolation(errors.New("ERROR: duplicate key value (SQLSTATE 23505)")),
		"solo el error tipado de pgconn cuenta, no su texto")
	assert.False(t, isUniqueViolation(errors.New("cualquier otro error")))
}
