// Package requestid generates and propagates the per-call request-id,
// a 6-hex-digit token prefixed "req_",
// attached to one logical MCP call and threaded through every downstream
// operation via context.Context, never stored past the call's lifetime.
package requestid

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type contextKey struct{}

// New generates a fresh request-id: "req_" followed by 6 lowercase hex digits.
func New() string {
	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failing is effectively unrecoverable on any real
		// platform; fall back to a fixed-but-valid id rather than panic,
		// so a single degraded entropy source never takes the server down.
		return "req_000000"
	}
	return "req_" + hex.EncodeToString(b[:])
}

// WithContext returns a context carrying id, retrievable with FromContext.
func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext extracts the request-id bound by WithContext, or "" if none.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// Header is the outbound HTTP header name every downstream Checkmk request
// must carry.
const Header = "X-Request-ID"
