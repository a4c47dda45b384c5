package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.False(t, IsDuplicateKey(errors.New("boom")))
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(fmt.Errorf("create order: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsDuplicateKey(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsDuplicateKey(&pgconn.PgError{Code: "23503"}))
}

func TestOpenRequiresURL(t *testing.T) {
	_, err := Open(context.Background(), "", time.Second, zap.NewNop())
	assert.EqualError(t, err, "DATABASE_URL is not set")
}
