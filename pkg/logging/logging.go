package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// SlogLevel converts a LogLevel to its slog.Level equivalent.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var defaultLogger *slog.Logger

// Init initializes the process-wide logger. It must be called once at
// startup, before the stdio transport starts reading MCP requests, because
// stdout is reserved for the MCP wire protocol — callers must point output
// at stderr in stdio mode.
func Init(level LogLevel, output io.Writer) {
	handler := slog.NewTextHandler(output, &slog.HandlerOptions{Level: level.SlogLevel()})
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func init() {
	// Safe default so packages that log before Init (e.g. in tests) don't
	// panic; cmd/serve re-points this at stderr for real runs.
	Init(LevelInfo, os.Stderr)
}

type requestIDKey struct{}

// WithRequestID returns a context carrying id so subsequent log calls made
// while handling the corresponding MCP call can be correlated.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext extracts the request-id stamped by WithRequestID, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func logInternal(ctx context.Context, level LogLevel, subsystem string, err error, messageFmt string, args ...interface{}) {
	if defaultLogger == nil || !defaultLogger.Enabled(context.Background(), level.SlogLevel()) {
		return
	}

	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}

	attrs := make([]slog.Attr, 0, 3)
	attrs = append(attrs, slog.String("subsystem", subsystem))
	if ctx != nil {
		if reqID := RequestIDFromContext(ctx); reqID != "" {
			attrs = append(attrs, slog.String("request_id", reqID))
		}
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	defaultLogger.LogAttrs(context.Background(), level.SlogLevel(), msg, attrs...)
}

// Debug logs a debug message.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(nil, LevelDebug, subsystem, nil, messageFmt, args...)
}

// Info logs an informational message.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(nil, LevelInfo, subsystem, nil, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(nil, LevelWarn, subsystem, nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(nil, LevelError, subsystem, err, messageFmt, args...)
}

// DebugCtx logs a debug message, attaching the request-id carried by ctx.
func DebugCtx(ctx context.Context, subsystem string, messageFmt string, args ...interface{}) {
	logInternal(ctx, LevelDebug, subsystem, nil, messageFmt, args...)
}

// InfoCtx logs an informational message, attaching the request-id carried by ctx.
func InfoCtx(ctx context.Context, subsystem string, messageFmt string, args ...interface{}) {
	logInternal(ctx, LevelInfo, subsystem, nil, messageFmt, args...)
}

// WarnCtx logs a warning message, attaching the request-id carried by ctx.
func WarnCtx(ctx context.Context, subsystem string, messageFmt string, args ...interface{}) {
	logInternal(ctx, LevelWarn, subsystem, nil, messageFmt, args...)
}

// ErrorCtx logs an error message, attaching the request-id carried by ctx.
func ErrorCtx(ctx context.Context, subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(ctx, LevelError, subsystem, err, messageFmt, args...)
}

// AuditEvent represents a structured audit log event for security-sensitive
// operations (rule writes, acknowledgments, downtimes).
type AuditEvent struct {
	Action    string // e.g. "set_service_parameters", "acknowledge_service_problem"
	Outcome   string // "success" or "failure"
	RequestID string
	Target    string // e.g. "host/service" pair or rule id
	Details   string
	Error     string
}

// Audit logs a structured audit event, always at INFO level with a
// [AUDIT] prefix so it is easy to filter out of general application logs.
func Audit(event AuditEvent) {
	parts := make([]string, 0, 6)
	parts = append(parts, "action="+event.Action)
	parts = append(parts, "outcome="+event.Outcome)
	if event.RequestID != "" {
		parts = append(parts, "request_id="+event.RequestID)
	}
	if event.Target != "" {
		parts = append(parts, "target="+event.Target)
	}
	if event.Details != "" {
		parts = append(parts, "details="+event.Details)
	}
	if event.Error != "" {
		parts = append(parts, "error="+event.Error)
	}
	logInternal(nil, LevelInfo, "AUDIT", nil, "[AUDIT] %s", strings.Join(parts, " "))
}
