// Package api defines the uniform result envelope and client-visible error
// taxonomy shared by the service facade, the tool adapters, and the MCP
// dispatcher.
package api

import (
	"context"

	"checkmkmcp/internal/requestid"
)

// ErrorKind is the client-visible error taxonomy (spec is expressed in
// §4.1/§7 terms: validation, unknown tool, upstream, timeout, internal).
type ErrorKind string

const (
	KindInvalidArguments ErrorKind = "invalid_arguments"
	KindUnknownTool      ErrorKind = "unknown_tool"
	KindUpstream         ErrorKind = "upstream_error"
	KindTimeout          ErrorKind = "timeout"
	KindNotFound         ErrorKind = "not_found"
	KindConflict         ErrorKind = "conflict"
	KindCancelled        ErrorKind = "cancelled"
	KindInternal         ErrorKind = "internal_error"
)

// ServiceError is the error half of a ServiceResult.
type ServiceError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// ServiceResult is the uniform envelope every tool invocation resolves to:
// a success flag, the request-id of the call, and either data or a typed
// error, plus non-fatal warnings riding alongside successful data.
type ServiceResult struct {
	Success   bool          `json:"success"`
	RequestID string        `json:"request_id,omitempty"`
	Data      interface{}   `json:"data,omitempty"`
	Error     *ServiceError `json:"error,omitempty"`
	Warnings  []string      `json:"warnings,omitempty"`
}

// OK builds a successful result, stamping the request-id carried by ctx.
func OK(ctx context.Context, data interface{}, warnings ...string) *ServiceResult {
	return &ServiceResult{
		Success:   true,
		RequestID: requestid.FromContext(ctx),
		Data:      data,
		Warnings:  warnings,
	}
}

// Fail builds a failed result with an explicit kind and message.
func Fail(ctx context.Context, kind ErrorKind, message string) *ServiceResult {
	return &ServiceResult{
		Success:   false,
		RequestID: requestid.FromContext(ctx),
		Error:     &ServiceError{Kind: kind, Message: message},
	}
}
