package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidNagiosThreshold(t *testing.T) {
	valid := []string{"10", "10:", "~:10", "10:20", "@10:20", "3.5", "0.5:2.5", "-10:10", "@~:0"}
	for _, s := range valid {
		assert.True(t, ValidNagiosThreshold(s), "expected %q to be valid", s)
	}

	invalid := []string{"", "~", ":", "abc", "10:20:30", "10:~", "@", "ten:20"}
	for _, s := range invalid {
		assert.False(t, ValidNagiosThreshold(s), "expected %q to be invalid", s)
	}
}

func TestCustom_ValidateThresholdSyntax(t *testing.T) {
	h := NewCustomCheckHandler()

	assert.Empty(t, h.Validate(map[string]interface{}{
		"warning_threshold":  "10:20",
		"critical_threshold": "@10:20",
	}))

	issues := h.Validate(map[string]interface{}{"warning_threshold": "not-a-range"})
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Equal(t, "warning_threshold", issues[0].Path)
}

func TestCustom_FlagsShellInjectionAsWarning(t *testing.T) {
	h := NewCustomCheckHandler()

	tests := []string{
		"check_disk; rm -rf /",
		"check_foo && curl evil",
		"check_bar | tee /tmp/out",
		"check_baz `id`",
		"check_qux $(whoami)",
	}
	for _, cmd := range tests {
		issues := h.Validate(map[string]interface{}{"command": cmd})
		require.Len(t, issues, 1, "command %q", cmd)
		assert.Equal(t, SeverityWarning, issues[0].Severity)
	}

	assert.Empty(t, h.Validate(map[string]interface{}{"command": "check_disk -w 80 -c 90"}))
}

func TestCustom_ValidateTimeout(t *testing.T) {
	h := NewCustomCheckHandler()
	issues := h.Validate(map[string]interface{}{"timeout": -1})
	require.Len(t, issues, 1)
	assert.Equal(t, "timeout", issues[0].Path)
}

func TestCustom_NormalizeTrimsThresholds(t *testing.T) {
	h := NewCustomCheckHandler()
	out, _ := h.Normalize(map[string]interface{}{
		"warning_threshold": "  10:20 ",
		"timeout":           60,
	})
	assert.Equal(t, "10:20", out["warning_threshold"])
	assert.Equal(t, 60.0, out["timeout"])
}

func TestCustom_SuggestMissingThresholds(t *testing.T) {
	h := NewCustomCheckHandler()
	suggestions := h.Suggest(map[string]interface{}{
		"warning_threshold":  "",
		"critical_threshold": "",
		"timeout":            300.0,
	}, Context{})
	require.Len(t, suggestions, 2)
	assert.Equal(t, "warning_threshold", suggestions[0].Parameter)
	assert.Equal(t, "timeout", suggestions[1].Parameter)
}
