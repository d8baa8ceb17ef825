package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/smallbiznis/royalty/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.True(t, IsDuplicateKeyErr(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsDuplicateKeyErr(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsDuplicateKeyErr(errors.New("UNIQUE constraint failed: charges.dedupe_key")))
	assert.False(t, IsDuplicateKeyErr(errors.New("connection reset")))
}

func TestDialectRejectsUnknownType(t *testing.T) {
	_, err := Dialect(config.Config{DBType: "oracle"})
	assert.Error(t, err)

	d, err := Dialect(config.Config{DBType: "sqlite"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())
}
