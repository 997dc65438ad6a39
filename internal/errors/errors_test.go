package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("Error formats code and message", func(t *testing.T) {
		err := New(ErrCodeEmptyBody, "Message body must not be empty")
		assert.Equal(t, "EMPTY_BODY: Message body must not be empty", err.Error())
	})

	t.Run("Error includes cause when wrapped", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrap(ErrCodeDatabase, "Database error", cause)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, cause, errors.Unwrap(err))
	})

	t.Run("WithDetails attaches details", func(t *testing.T) {
		err := InvalidRange("end date before start date").WithDetails(map[string]string{"field": "rangeEnd"})
		assert.NotNil(t, err.Details)
		assert.Equal(t, ErrCodeInvalidRange, err.Code)
	})
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
	}{
		{"unauthorized", Unauthorized("no session"), ErrCodeUnauthorized},
		{"forbidden", Forbidden("not a participant"), ErrCodeForbidden},
		{"not found", NotFound("Conversation"), ErrCodeNotFound},
		{"invalid range", InvalidRange("unparseable date"), ErrCodeInvalidRange},
		{"invalid participants", InvalidParticipants(), ErrCodeInvalidParticipants},
		{"empty body", EmptyBody(), ErrCodeEmptyBody},
		{"batch too large", BatchTooLarge(1000), ErrCodeBatchTooLarge},
		{"rate limit", RateLimitExceeded(), ErrCodeRateLimitExceeded},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.err.Code)
			assert.NotEmpty(t, tc.err.Message)
		})
	}
}

func TestHelpers(t *testing.T) {
	t.Run("AsAppError unwraps through fmt.Errorf", func(t *testing.T) {
		wrapped := fmt.Errorf("post message: %w", EmptyBody())
		appErr, ok := AsAppError(wrapped)
		assert.True(t, ok)
		assert.Equal(t, ErrCodeEmptyBody, appErr.Code)
	})

	t.Run("GetCode falls back to internal", func(t *testing.T) {
		assert.Equal(t, ErrCodeInternal, GetCode(errors.New("plain")))
	})

	t.Run("IsAppError detects plain errors", func(t *testing.T) {
		assert.False(t, IsAppError(errors.New("plain")))
		assert.True(t, IsAppError(NotFound("Job")))
	})
}
