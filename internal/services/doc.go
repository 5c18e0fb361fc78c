// Package services is the domain facade between the MCP tool adapters and
// the Checkmk REST client. Each service owns one tool category's operations
// and composes the cross-cutting utilities (cache, streaming, batch,
// metrics) orthogonally. Services are stateless past construction and safe
// for concurrent use.
package services
