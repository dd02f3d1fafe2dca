package github

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	notFound := &APIError{StatusCode: http.StatusNotFound, Message: "Not Found"}
	conflict := &APIError{StatusCode: http.StatusConflict, Message: "does not match"}
	exists := &APIError{StatusCode: http.StatusUnprocessableEntity, Message: "sha wasn't supplied"}
	unauthorized := &APIError{StatusCode: http.StatusUnauthorized, Message: "Bad credentials"}

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(conflict))

	assert.True(t, IsVersionConflict(conflict))
	assert.False(t, IsVersionConflict(notFound))

	assert.True(t, IsAlreadyExists(exists))
	assert.True(t, IsUnauthorized(unauthorized))

	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsRateLimited(nil))
}

func TestErrorPredicates_Wrapped(t *testing.T) {
	err := fmt.Errorf("get contents: %w", &APIError{StatusCode: http.StatusNotFound})
	assert.True(t, IsNotFound(err))
}

func TestRateLimitError(t *testing.T) {
	err := &RateLimitError{
		ResetAt:   time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC),
		Remaining: 0,
		Limit:     5000,
	}
	assert.True(t, IsRateLimited(fmt.Errorf("wrapped: %w", err)))
	assert.Contains(t, err.Error(), "rate limit exceeded")
}
