package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		code     int
		wantType ErrorType
	}{
		{http.StatusUnauthorized, ErrorTypeAuth},
		{http.StatusForbidden, ErrorTypeAuth},
		{http.StatusNotFound, ErrorTypeNotFound},
		{http.StatusTooManyRequests, ErrorTypeRateLimit},
		{http.StatusInternalServerError, ErrorTypeServerError},
		{http.StatusServiceUnavailable, ErrorTypeServerError},
		{http.StatusBadRequest, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			err := FromStatus(tt.code, "")
			assert.Equal(t, tt.wantType, err.Type)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, http.StatusText(tt.code), err.Message)
		})
	}
}

func TestIsRequestFailure(t *testing.T) {
	apiErr := FromStatus(http.StatusTooManyRequests, "Rate limit exceeded")
	wrapped := fmt.Errorf("user 42: %w", apiErr)

	assert.True(t, IsRequestFailure(apiErr))
	assert.True(t, IsRequestFailure(wrapped))
	assert.False(t, IsRequestFailure(ErrMalformedItem))
	assert.False(t, IsRequestFailure(nil))
}

func TestErrorUnwrap(t *testing.T) {
	cause := stderrors.New("connection reset by peer")
	err := &Error{Type: ErrorTypeNetwork, Message: "network error", Err: cause}

	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "network error (code 0)")
}
