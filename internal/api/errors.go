package api

import (
	"context"
	"errors"

	"checkmkmcp/internal/checkmkclient"
)

// ArgumentError reports a tool-argument validation failure with the path of
// the offending field, surfaced as invalid_arguments and never retried.
type ArgumentError struct {
	Path   string
	Reason string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return "invalid argument " + e.Path + ": " + e.Reason
}

// NewArgumentError creates an ArgumentError for one argument path.
func NewArgumentError(path, reason string) *ArgumentError {
	return &ArgumentError{Path: path, Reason: reason}
}

// IsArgumentError checks if an error is an ArgumentError.
func IsArgumentError(err error) bool {
	var argErr *ArgumentError
	return errors.As(err, &argErr)
}

// Classify maps an error raised by the service layer or the Checkmk client
// onto the client-visible taxonomy. Message sanitization happens later, at
// the MCP boundary; Classify only decides the kind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case IsArgumentError(err):
		return KindInvalidArguments
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCancelled
	}

	var (
		notFound *checkmkclient.NotFoundError
		conflict *checkmkclient.ConflictError
		timeout  *checkmkclient.TimeoutError
		svcErr   *ServiceError
	)
	switch {
	case errors.As(err, &svcErr):
		return svcErr.Kind
	case errors.As(err, &notFound):
		return KindNotFound
	case errors.As(err, &conflict):
		return KindConflict
	case errors.As(err, &timeout):
		return KindTimeout
	}

	var (
		network  *checkmkclient.NetworkError
		auth     *checkmkclient.AuthError
		valid    *checkmkclient.ValidationError
		server   *checkmkclient.ServerError
		rateLim  *checkmkclient.RateLimitError
		circuit  *checkmkclient.CircuitOpenError
	)
	switch {
	case errors.As(err, &network), errors.As(err, &auth), errors.As(err, &valid),
		errors.As(err, &server), errors.As(err, &rateLim), errors.As(err, &circuit):
		return KindUpstream
	}

	return KindInternal
}

// FromError builds a failed ServiceResult from any error, classifying it
// onto the taxonomy.
func FromError(ctx context.Context, err error) *ServiceResult {
	return Fail(ctx, Classify(err), err.Error())
}
