package handlers

import (
	"fmt"
	"strings"
)

// tempProfile holds the symmetric upper/lower warning and critical
// thresholds for one hardware class, in degrees Celsius.
type tempProfile struct {
	UpperWarn, UpperCrit float64
	LowerWarn, LowerCrit float64
}

// temperatureProfiles covers the common hardware classes. Values are
// conservative vendor-neutral operating ranges.
var temperatureProfiles = map[string]tempProfile{
	"cpu":     {UpperWarn: 75, UpperCrit: 85, LowerWarn: 5, LowerCrit: 0},
	"ambient": {UpperWarn: 30, UpperCrit: 35, LowerWarn: 10, LowerCrit: 5},
	"storage": {UpperWarn: 50, UpperCrit: 60, LowerWarn: 5, LowerCrit: 0},
	"chassis": {UpperWarn: 40, UpperCrit: 50, LowerWarn: 5, LowerCrit: 0},
	"psu":     {UpperWarn: 60, UpperCrit: 70, LowerWarn: 5, LowerCrit: 0},
	"nic":     {UpperWarn: 65, UpperCrit: 75, LowerWarn: 5, LowerCrit: 0},
	"gpu":     {UpperWarn: 80, UpperCrit: 90, LowerWarn: 5, LowerCrit: 0},
}

// hardwareClassHints infer a hardware class from a service description when
// the caller passes no explicit hardware_type.
var hardwareClassHints = []struct {
	keyword string
	class   string
}{
	{"cpu", "cpu"},
	{"core", "cpu"},
	{"ambient", "ambient"},
	{"room", "ambient"},
	{"inlet", "ambient"},
	{"disk", "storage"},
	{"drive", "storage"},
	{"ssd", "storage"},
	{"hdd", "storage"},
	{"nvme", "storage"},
	{"chassis", "chassis"},
	{"board", "chassis"},
	{"system", "chassis"},
	{"psu", "psu"},
	{"power", "psu"},
	{"nic", "nic"},
	{"ethernet", "nic"},
	{"gpu", "gpu"},
	{"video", "gpu"},
}

// TemperatureHandler owns temperature-family rulesets. Thresholds are
// floats end to end: integral caller input is coerced during Normalize, and
// °F/Kelvin input is converted to °C.
type TemperatureHandler struct{}

// NewTemperatureHandler constructs the temperature handler.
func NewTemperatureHandler() *TemperatureHandler { return &TemperatureHandler{} }

func (h *TemperatureHandler) Name() string  { return "temperature" }
func (h *TemperatureHandler) Priority() int { return 100 }

func (h *TemperatureHandler) ServicePatterns() []string {
	return []string{`(?i)\btemp(erature)?\b`, `(?i)thermal`, `(?i)\bzone\s+\d`}
}

func (h *TemperatureHandler) RulesetPatterns() []string {
	return []string{`temperature`}
}

func (h *TemperatureHandler) DefaultRuleset() string {
	return "checkgroup_parameters:temperature"
}

// Defaults returns profile thresholds for the hardware class named by the
// context (falling back to keyword inference from the service description,
// then to the chassis profile). Production environments tighten the upper
// thresholds by 5°C; development relaxes them by the same margin.
func (h *TemperatureHandler) Defaults(service string, hctx Context) map[string]interface{} {
	class := strings.ToLower(hctx.HardwareType)
	if _, ok := temperatureProfiles[class]; !ok {
		class = inferHardwareClass(service)
	}
	profile := temperatureProfiles[class]

	adjust := 0.0
	switch hctx.Environment {
	case "production":
		adjust = -5
	case "development":
		adjust = 5
	}

	return map[string]interface{}{
		"levels":       []interface{}{profile.UpperWarn + adjust, profile.UpperCrit + adjust},
		"levels_lower": []interface{}{profile.LowerWarn, profile.LowerCrit},
		"output_unit":  "c",
	}
}

func inferHardwareClass(service string) string {
	lower := strings.ToLower(service)
	for _, hint := range hardwareClassHints {
		if strings.Contains(lower, hint.keyword) {
			return hint.class
		}
	}
	return "chassis"
}

// Normalize converts thresholds supplied in °F or Kelvin (signalled by an
// "input_unit" key) into °C and coerces integral values to float.
func (h *TemperatureHandler) Normalize(params map[string]interface{}) (map[string]interface{}, []string) {
	var warnings []string
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		out[k] = v
	}

	unit := "c"
	if u, ok := out["input_unit"].(string); ok {
		unit = strings.ToLower(u)
		delete(out, "input_unit")
	}

	for _, key := range []string{"levels", "levels_lower"} {
		v, ok := out[key]
		if !ok {
			continue
		}
		pair, isList := v.([]interface{})
		if !isList {
			continue
		}
		converted := make([]interface{}, len(pair))
		for i, item := range pair {
			f, isNum := asFloat(item)
			if !isNum {
				converted[i] = item
				continue
			}
			converted[i] = convertToCelsius(f, unit)
		}
		out[key] = converted
	}
	if unit != "c" && unit != "celsius" {
		warnings = append(warnings, fmt.Sprintf("thresholds converted from %s to °C", strings.ToUpper(unit)))
	}

	for k, v := range out {
		out[k] = coerceLevels(coerceFloat(v))
	}
	return out, warnings
}

func convertToCelsius(value float64, unit string) float64 {
	switch unit {
	case "f", "fahrenheit":
		return (value - 32) * 5 / 9
	case "k", "kelvin":
		return value - 273.15
	default:
		return value
	}
}

// Validate checks threshold ordering and physical plausibility.
func (h *TemperatureHandler) Validate(params map[string]interface{}) []Issue {
	var issues []Issue

	if v, ok := params["levels"]; ok {
		warn, crit, parsed := levelsPair(v)
		switch {
		case !parsed:
			issues = append(issues, Issue{
				Severity: SeverityError, Path: "levels",
				Message:      "levels must be a [warning, critical] pair of numbers",
				SuggestedFix: "e.g. [75.0, 85.0]",
			})
		case warn >= crit:
			issues = append(issues, Issue{
				Severity: SeverityError, Path: "levels",
				Message:      fmt.Sprintf("warning threshold %.1f must be below critical %.1f", warn, crit),
				SuggestedFix: "swap the values or widen the gap",
			})
		case crit > 150 || warn < -273.15:
			issues = append(issues, Issue{
				Severity: SeverityWarning, Path: "levels",
				Message: "thresholds are outside the plausible range for hardware temperatures in °C",
			})
		}
	}

	if v, ok := params["levels_lower"]; ok {
		warn, crit, parsed := levelsPair(v)
		if parsed && warn <= crit {
			issues = append(issues, Issue{
				Severity: SeverityError, Path: "levels_lower",
				Message:      fmt.Sprintf("lower warning %.1f must be above lower critical %.1f", warn, crit),
				SuggestedFix: "lower thresholds are ordered descending, e.g. [5.0, 0.0]",
			})
		}
	}

	if u, ok := params["output_unit"].(string); ok {
		switch strings.ToLower(u) {
		case "c", "f", "k":
		default:
			issues = append(issues, Issue{
				Severity: SeverityError, Path: "output_unit",
				Message:      fmt.Sprintf("unknown output unit %q", u),
				SuggestedFix: `one of "c", "f", "k"`,
			})
		}
	}
	return issues
}

// Suggest flags narrow warning/critical gaps and over-generous production
// thresholds.
func (h *TemperatureHandler) Suggest(current map[string]interface{}, hctx Context) []Suggestion {
	var suggestions []Suggestion

	if v, ok := current["levels"]; ok {
		if warn, crit, parsed := levelsPair(v); parsed {
			if crit-warn < 5 {
				suggestions = append(suggestions, Suggestion{
					Parameter: "levels",
					Current:   []interface{}{warn, crit},
					Suggested: []interface{}{warn, warn + 10},
					Reason:    "a warning/critical gap under 5°C leaves little reaction time",
				})
			}
			if hctx.Environment == "production" && crit > 90 {
				suggestions = append(suggestions, Suggestion{
					Parameter: "levels",
					Current:   []interface{}{warn, crit},
					Suggested: []interface{}{75.0, 85.0},
					Reason:    "critical threshold above 90°C is risky for production hardware",
				})
			}
		}
	}

	if _, ok := current["levels_lower"]; !ok {
		suggestions = append(suggestions, Suggestion{
			Parameter: "levels_lower",
			Suggested: []interface{}{5.0, 0.0},
			Reason:    "lower thresholds catch cooling failures and sensor faults",
		})
	}
	return suggestions
}
