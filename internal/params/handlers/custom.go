package handlers

import (
	"fmt"
	"strconv"
	"strings"
)

// shellMetacharacters are the substrings flagged as injection risks when
// found inside a command line. Matches surface as warnings, not errors: MRPE
// commands legitimately use pipes on occasion, but the operator should see
// them called out.
var shellMetacharacters = []string{";", "&&", "||", "|", "`", "$(", ">", "<", "\n"}

// CustomCheckHandler owns MRPE, local checks, classic Nagios plugins,
// active checks, and operator scripts. Its main value is Nagios threshold
// syntax validation and flagging shell-injection risks in command lines.
type CustomCheckHandler struct{}

// NewCustomCheckHandler constructs the custom-check handler.
func NewCustomCheckHandler() *CustomCheckHandler { return &CustomCheckHandler{} }

func (h *CustomCheckHandler) Name() string  { return "custom_checks" }
func (h *CustomCheckHandler) Priority() int { return 50 }

func (h *CustomCheckHandler) ServicePatterns() []string {
	return []string{
		`(?i)\bmrpe\b`, `(?i)\blocal\b`, `(?i)\bnagios\b`,
		`(?i)\bcheck_\w+`, `(?i)\bscript\b`, `(?i)\bcustom\b`,
	}
}

func (h *CustomCheckHandler) RulesetPatterns() []string {
	return []string{`\bmrpe\b`, `custom_checks`, `\blocal\b`}
}

func (h *CustomCheckHandler) DefaultRuleset() string {
	return "custom_checks"
}

// Defaults for custom checks are conservative: a timeout and empty
// threshold strings for the operator to fill in.
func (h *CustomCheckHandler) Defaults(service string, hctx Context) map[string]interface{} {
	return map[string]interface{}{
		"timeout":            60.0,
		"warning_threshold":  "",
		"critical_threshold": "",
	}
}

// Normalize trims whitespace off threshold strings and coerces numerics.
func (h *CustomCheckHandler) Normalize(params map[string]interface{}) (map[string]interface{}, []string) {
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		if s, ok := v.(string); ok && strings.HasSuffix(k, "_threshold") {
			out[k] = strings.TrimSpace(s)
			continue
		}
		out[k] = coerceFloat(v)
	}
	return out, nil
}

// Validate checks Nagios threshold syntax and scans command lines for shell
// metacharacters.
func (h *CustomCheckHandler) Validate(params map[string]interface{}) []Issue {
	var issues []Issue

	for _, key := range []string{"warning_threshold", "critical_threshold"} {
		s, ok := params[key].(string)
		if !ok || s == "" {
			continue
		}
		if !ValidNagiosThreshold(s) {
			issues = append(issues, Issue{
				Severity: SeverityError, Path: key,
				Message:      fmt.Sprintf("%q is not valid Nagios threshold syntax", s),
				SuggestedFix: `accepted forms: "10", "10:", "~:10", "10:20", "@10:20"`,
			})
		}
	}

	for _, key := range []string{"command", "command_line", "cmdline"} {
		cmd, ok := params[key].(string)
		if !ok {
			continue
		}
		for _, meta := range shellMetacharacters {
			if strings.Contains(cmd, meta) {
				issues = append(issues, Issue{
					Severity: SeverityWarning, Path: key,
					Message:      fmt.Sprintf("command contains shell metacharacter %q, a possible injection risk", meta),
					SuggestedFix: "prefer a wrapper script over inline shell constructs",
				})
				break
			}
		}
	}

	if t, ok := params["timeout"]; ok {
		if secs, isNum := asFloat(t); !isNum || secs <= 0 {
			issues = append(issues, Issue{
				Severity: SeverityError, Path: "timeout",
				Message: fmt.Sprintf("timeout %v must be a positive number of seconds", t),
			})
		}
	}
	return issues
}

// Suggest flags missing thresholds and generous timeouts.
func (h *CustomCheckHandler) Suggest(current map[string]interface{}, hctx Context) []Suggestion {
	var suggestions []Suggestion

	warn, _ := current["warning_threshold"].(string)
	crit, _ := current["critical_threshold"].(string)
	if warn == "" && crit == "" {
		suggestions = append(suggestions, Suggestion{
			Parameter: "warning_threshold",
			Suggested: "80",
			Reason:    "without thresholds the check can only report hard failures",
		})
	}
	if t, ok := current["timeout"]; ok {
		if secs, isNum := asFloat(t); isNum && secs > 120 {
			suggestions = append(suggestions, Suggestion{
				Parameter: "timeout", Current: secs, Suggested: 60.0,
				Reason: "timeouts above two minutes stall the whole check cycle",
			})
		}
	}
	return suggestions
}

// ValidNagiosThreshold reports whether s is valid Nagios range syntax:
// "10", "10:", "~:10", "10:20", "@10:20", with decimal values allowed.
func ValidNagiosThreshold(s string) bool {
	if s == "" {
		return false
	}
	s = strings.TrimPrefix(s, "@")
	if s == "" || s == ":" {
		return false
	}

	parts := strings.Split(s, ":")
	if len(parts) > 2 {
		return false
	}

	start := parts[0]
	if start != "" && start != "~" && !validNagiosNumber(start) {
		return false
	}

	if len(parts) == 1 {
		// A bare value is the range end; "~" alone is not a range.
		return start != "~" && start != ""
	}

	end := parts[1]
	if end == "" {
		// "10:" means 10..infinity; requires an explicit start.
		return start != ""
	}
	return end != "~" && validNagiosNumber(end)
}

func validNagiosNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
