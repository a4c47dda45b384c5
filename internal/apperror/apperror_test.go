package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound_WrapsSentinel(t *testing.T) {
	err := NotFound("event", "abc")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "event not found with id abc", err.Error())
}

func TestErrorsIs_ThroughFmtWrap(t *testing.T) {
	wrapped := fmt.Errorf("updating event: %w", Unauthorized("not the organizer"))

	assert.True(t, errors.Is(wrapped, ErrUnauthorized))
	assert.False(t, errors.Is(wrapped, ErrNotFound))

	var appErr *AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "not the organizer", appErr.Message)
}

func TestConstructors_MapToSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"validation", Validation("bad"), ErrValidation},
		{"signature", Signature("bad sig"), ErrSignature},
		{"conflict", Conflict("order", "cs_1"), ErrConflict},
		{"integrity", Integrity("buyer missing"), ErrIntegrity},
		{"forbidden", Forbidden("no"), ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.want)
		})
	}
}
