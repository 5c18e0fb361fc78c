package checkmkclient

// temperatureRulesets is the allow-list of ruleset names Checkmk treats as
// float-valued even when a caller supplies integers.
var temperatureRulesets = map[string]bool{
	"checkgroup_parameters:temperature":     true,
	"checkgroup_parameters:room_temperature": true,
	"checkgroup_parameters:hw_temperature":   true,
}

// IsTemperatureRuleset reports whether ruleset is in the float-coercion
// allow-list.
func IsTemperatureRuleset(ruleset string) bool {
	return temperatureRulesets[ruleset]
}

// CoerceFloats walks value recursively and converts any int/int64 leaf to
// float64, so that integral thresholds (e.g. 75) are serialized as 75.0
// rather than 75 on the wire, which Checkmk's valuespec would reject.
func CoerceFloats(value map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(value))
	for k, v := range value {
		out[k] = coerceFloatsValue(v)
	}
	return out
}

func coerceFloatsValue(v interface{}) interface{} {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case map[string]interface{}:
		return CoerceFloats(x)
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, item := range x {
			out[i] = coerceFloatsValue(item)
		}
		return out
	default:
		return v
	}
}
