package checkmkclient

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	retryable := []error{
		&NetworkError{Op: "GET /x", Err: errors.New("conn reset")},
		&TimeoutError{Op: "GET /x"},
		&ServerError{StatusCode: 503},
		&RateLimitError{Message: "too many requests"},
	}
	for _, err := range retryable {
		assert.Truef(t, isRetryable(err), "%T should be retryable", err)
	}

	notRetryable := []error{
		&AuthError{StatusCode: 401},
		&NotFoundError{ResourceType: "host", ResourceID: "srv1"},
		&ConflictError{ResourceID: "1"},
		&ValidationError{StatusCode: 400},
		&CircuitOpenError{Family: "hosts"},
	}
	for _, err := range notRetryable {
		assert.Falsef(t, isRetryable(err), "%T should not be retryable", err)
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	inner := errors.New("dial tcp: connection refused")
	err := &NetworkError{Op: "GET /x", Err: inner}
	assert.ErrorIs(t, err, inner)
}

func TestErrorMessages_IncludeContext(t *testing.T) {
	assert.Contains(t, (&NotFoundError{ResourceType: "host", ResourceID: "srv1"}).Error(), "srv1")
	assert.Contains(t, (&ConflictError{ResourceID: "rule-1"}).Error(), "rule-1")
	assert.Contains(t, (&CircuitOpenError{Family: "hosts"}).Error(), "hosts")
}
