package tools

import (
	"fmt"
	"time"

	"checkmkmcp/internal/api"
	"checkmkmcp/internal/params/handlers"
)

// stringArg extracts a string argument. Required-but-missing and
// wrong-typed values become *api.ArgumentError with the argument path.
func stringArg(args map[string]interface{}, name string, required bool) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		if required {
			return "", api.NewArgumentError(name, "required")
		}
		return "", nil
	}
	s, isString := v.(string)
	if !isString {
		return "", api.NewArgumentError(name, fmt.Sprintf("expected string, got %T", v))
	}
	if required && s == "" {
		return "", api.NewArgumentError(name, "must not be empty")
	}
	return s, nil
}

// intArg extracts an integer argument. JSON numbers arrive as float64 and
// are accepted when integral.
func intArg(args map[string]interface{}, name string, fallback int) (int, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return fallback, nil
	}
	f, isNum := v.(float64)
	if !isNum || f != float64(int(f)) {
		return 0, api.NewArgumentError(name, fmt.Sprintf("expected integer, got %v", v))
	}
	return int(f), nil
}

// boolArg extracts a boolean argument, defaulting to false when absent.
func boolArg(args map[string]interface{}, name string) (bool, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return false, nil
	}
	b, isBool := v.(bool)
	if !isBool {
		return false, api.NewArgumentError(name, fmt.Sprintf("expected boolean, got %T", v))
	}
	return b, nil
}

// mapArg extracts an object argument.
func mapArg(args map[string]interface{}, name string, required bool) (map[string]interface{}, error) {
	v, ok := args[name]
	if !ok || v == nil {
		if required {
			return nil, api.NewArgumentError(name, "required")
		}
		return nil, nil
	}
	m, isMap := v.(map[string]interface{})
	if !isMap {
		return nil, api.NewArgumentError(name, fmt.Sprintf("expected object, got %T", v))
	}
	return m, nil
}

// listArg extracts an array argument.
func listArg(args map[string]interface{}, name string, required bool) ([]interface{}, error) {
	v, ok := args[name]
	if !ok || v == nil {
		if required {
			return nil, api.NewArgumentError(name, "required")
		}
		return nil, nil
	}
	l, isList := v.([]interface{})
	if !isList {
		return nil, api.NewArgumentError(name, fmt.Sprintf("expected array, got %T", v))
	}
	return l, nil
}

// timeArg extracts an RFC 3339 timestamp argument.
func timeArg(args map[string]interface{}, name string, required bool) (*time.Time, error) {
	s, err := stringArg(args, name, required)
	if err != nil || s == "" {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, api.NewArgumentError(name, "expected RFC 3339 timestamp, e.g. 2026-08-02T15:04:05Z")
	}
	return &t, nil
}

// handlerContextArg extracts the optional "context" object into a
// handlers.Context.
func handlerContextArg(args map[string]interface{}) (handlers.Context, error) {
	m, err := mapArg(args, "context", false)
	if err != nil || m == nil {
		return handlers.Context{}, err
	}

	hctx := handlers.Context{}
	if s, ok := m["environment"].(string); ok {
		hctx.Environment = s
	}
	if s, ok := m["criticality"].(string); ok {
		hctx.Criticality = s
	}
	if s, ok := m["hardware_type"].(string); ok {
		hctx.HardwareType = s
	}
	if s, ok := m["location"].(string); ok {
		hctx.Location = s
	}
	if b, ok := m["include_trending"].(bool); ok {
		hctx.IncludeTrending = b
	}
	return hctx, nil
}
