package params

import "regexp"

// rulesetHint seeds the pattern-to-ruleset mapping for common service
// families. This table is a cache in front of dynamic discovery, not a
// replacement: Engine.ResolveRuleset consults it right after an explicit
// caller choice, then tries the handler registry, and asks Checkmk only
// when neither matches.
type rulesetHint struct {
	pattern *regexp.Regexp
	ruleset string
}

var rulesetHints = []rulesetHint{
	{regexp.MustCompile(`(?i)\btemp(erature)?\b`), "checkgroup_parameters:temperature"},
	{regexp.MustCompile(`(?i)^filesystem\b|\bdisk space\b`), "checkgroup_parameters:filesystem"},
	{regexp.MustCompile(`(?i)\bcpu\b.*\b(util|load)`), "checkgroup_parameters:cpu_utilization_linux"},
	{regexp.MustCompile(`(?i)\bmemory\b`), "checkgroup_parameters:memory_linux"},
	{regexp.MustCompile(`(?i)\binterface\b|\bnic\b|\beth\d`), "checkgroup_parameters:interfaces"},
	{regexp.MustCompile(`(?i)\boracle\b.*tablespace|tablespace`), "checkgroup_parameters:oracle_tablespaces"},
	{regexp.MustCompile(`(?i)\bmysql\b.*connection`), "checkgroup_parameters:mysql_connections"},
	{regexp.MustCompile(`(?i)^https?\b`), "active_checks:http"},
}

// staticRulesetFor returns the hinted ruleset for a service description, or
// "" when no hint matches.
func staticRulesetFor(service string) string {
	for _, h := range rulesetHints {
		if h.pattern.MatchString(service) {
			return h.ruleset
		}
	}
	return ""
}
