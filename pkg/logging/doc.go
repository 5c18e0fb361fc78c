// Package logging provides the structured logging facade used throughout
// the server: subsystem-tagged Debug/Info/Warn/Error calls over log/slog,
// plus an Audit helper for security/ops-relevant events (rule writes,
// acknowledgments, downtimes) and a WithRequestID helper that stamps every
// log line emitted while handling one MCP tool call with its request-id.
package logging
