package handlers

import (
	"fmt"
	"regexp"
	"strings"
)

// dbEngine identifies one supported database family.
type dbEngine string

const (
	engineOracle    dbEngine = "oracle"
	engineMySQL     dbEngine = "mysql"
	enginePostgres  dbEngine = "postgresql"
	engineSQLServer dbEngine = "sqlserver"
	engineMongoDB   dbEngine = "mongodb"
	engineRedis     dbEngine = "redis"
)

// engineDefaults holds the per-engine default parameter sets. Percentages
// are (warn, crit) pairs; counts and seconds likewise.
var engineDefaults = map[dbEngine]map[string]interface{}{
	engineOracle: {
		"levels":           []interface{}{80.0, 90.0}, // tablespace used %
		"sessions":         []interface{}{80.0, 90.0},
		"locks":            []interface{}{50.0, 100.0},
		"processes_levels": []interface{}{80.0, 90.0},
	},
	engineMySQL: {
		"connections":          []interface{}{80.0, 90.0}, // of max_connections %
		"slow_queries":         []interface{}{10.0, 20.0}, // per second
		"innodb_buffer_pool":   []interface{}{90.0, 80.0}, // hit rate %, descending
		"replication_lag":      []interface{}{30.0, 60.0}, // seconds
	},
	enginePostgres: {
		"connections":     []interface{}{80.0, 90.0},
		"locks":           []interface{}{50.0, 100.0},
		"replication_lag": []interface{}{30.0, 60.0},
		"bloat":           []interface{}{20.0, 40.0},
	},
	engineSQLServer: {
		"connections":      []interface{}{80.0, 90.0},
		"buffer_cache_hit": []interface{}{90.0, 80.0},
		"blocked_sessions": []interface{}{1.0, 5.0},
		"log_usage":        []interface{}{80.0, 90.0},
	},
	engineMongoDB: {
		"connections":     []interface{}{80.0, 90.0},
		"replication_lag": []interface{}{30.0, 60.0},
		"page_faults":     []interface{}{100.0, 500.0},
	},
	engineRedis: {
		"memory_usage":      []interface{}{80.0, 90.0},
		"connected_clients": []interface{}{80.0, 90.0},
		"hit_ratio":         []interface{}{90.0, 80.0},
	},
}

// engineRulesets maps each engine to its most common parameter ruleset.
var engineRulesets = map[dbEngine]string{
	engineOracle:    "checkgroup_parameters:oracle_tablespaces",
	engineMySQL:     "checkgroup_parameters:mysql_connections",
	enginePostgres:  "checkgroup_parameters:postgres_connections",
	engineSQLServer: "checkgroup_parameters:mssql_counters_locks",
	engineMongoDB:   "checkgroup_parameters:mongodb_connections",
	engineRedis:     "checkgroup_parameters:redis_info",
}

var hostnameRe = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9.-]{0,252}[a-zA-Z0-9])?$`)

// DatabaseHandler owns database-family rulesets across the supported
// engines, with per-engine defaults and connection-parameter validation.
type DatabaseHandler struct{}

// NewDatabaseHandler constructs the database handler.
func NewDatabaseHandler() *DatabaseHandler { return &DatabaseHandler{} }

func (h *DatabaseHandler) Name() string  { return "database" }
func (h *DatabaseHandler) Priority() int { return 90 }

func (h *DatabaseHandler) ServicePatterns() []string {
	return []string{
		`(?i)\boracle\b`, `(?i)\bmysql\b`, `(?i)\bmariadb\b`, `(?i)\bpostgres(ql)?\b`,
		`(?i)\bmssql\b`, `(?i)sql\s*server`, `(?i)\bmongo(db)?\b`, `(?i)\bredis\b`,
		`(?i)tablespace`, `(?i)\bdb2\b`,
	}
}

func (h *DatabaseHandler) RulesetPatterns() []string {
	return []string{`oracle`, `mysql`, `postgres`, `mssql`, `mongodb`, `redis`, `db2`}
}

func (h *DatabaseHandler) DefaultRuleset() string {
	return "checkgroup_parameters:oracle_tablespaces"
}

// detectEngine infers the database engine from a service description or
// ruleset name.
func detectEngine(s string) dbEngine {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "oracle") || strings.Contains(lower, "tablespace"):
		return engineOracle
	case strings.Contains(lower, "mysql") || strings.Contains(lower, "mariadb"):
		return engineMySQL
	case strings.Contains(lower, "postgres"):
		return enginePostgres
	case strings.Contains(lower, "mssql") || strings.Contains(lower, "sql server"):
		return engineSQLServer
	case strings.Contains(lower, "mongo"):
		return engineMongoDB
	case strings.Contains(lower, "redis"):
		return engineRedis
	default:
		return engineOracle
	}
}

// Defaults returns the per-engine default set, tightening replication-lag
// thresholds for production contexts.
func (h *DatabaseHandler) Defaults(service string, hctx Context) map[string]interface{} {
	engine := detectEngine(service)
	defaults := engineDefaults[engine]

	out := make(map[string]interface{}, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}

	if hctx.Environment == "production" {
		if _, ok := out["replication_lag"]; ok {
			out["replication_lag"] = []interface{}{10.0, 30.0}
		}
	}
	return out
}

// Normalize coerces integral thresholds to float.
func (h *DatabaseHandler) Normalize(params map[string]interface{}) (map[string]interface{}, []string) {
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		out[k] = coerceLevels(coerceFloat(v))
	}
	return out, nil
}

// Validate checks threshold pairs plus the connection parameters (hostname,
// port range, ssl flag) when present.
func (h *DatabaseHandler) Validate(params map[string]interface{}) []Issue {
	var issues []Issue

	for key, v := range params {
		if warn, crit, ok := levelsPair(v); ok {
			// Hit-rate style parameters are descending pairs; only flag
			// ascending parameters that are inverted.
			if descendingDBParam(key) {
				if warn <= crit {
					issues = append(issues, Issue{
						Severity: SeverityError, Path: key,
						Message:      fmt.Sprintf("%s thresholds are descending: warning %.1f must be above critical %.1f", key, warn, crit),
						SuggestedFix: "e.g. [90.0, 80.0] to warn when the rate drops below 90%",
					})
				}
			} else if warn >= crit {
				issues = append(issues, Issue{
					Severity: SeverityError, Path: key,
					Message:      fmt.Sprintf("warning threshold %.1f must be below critical %.1f", warn, crit),
					SuggestedFix: "e.g. [80.0, 90.0]",
				})
			}
		}
	}

	if host, ok := params["hostname"].(string); ok {
		if !hostnameRe.MatchString(host) {
			issues = append(issues, Issue{
				Severity: SeverityError, Path: "hostname",
				Message: fmt.Sprintf("%q is not a valid hostname", host),
			})
		}
	}
	if port, ok := params["port"]; ok {
		p, isNum := asFloat(port)
		if !isNum || p != float64(int(p)) || p < 1 || p > 65535 {
			issues = append(issues, Issue{
				Severity: SeverityError, Path: "port",
				Message:      fmt.Sprintf("port %v is outside 1-65535", port),
				SuggestedFix: "use the database listener port, e.g. 1521 for Oracle or 3306 for MySQL",
			})
		}
	}
	if ssl, ok := params["ssl"]; ok {
		if _, isBool := ssl.(bool); !isBool {
			issues = append(issues, Issue{
				Severity: SeverityError, Path: "ssl",
				Message: "ssl must be a boolean",
			})
		}
	}
	return issues
}

// descendingDBParam reports whether a parameter is a rate where lower is
// worse, making its threshold pair descending.
func descendingDBParam(key string) bool {
	switch key {
	case "innodb_buffer_pool", "buffer_cache_hit", "hit_ratio":
		return true
	default:
		return false
	}
}

// Suggest proposes SSL for production connections and tighter lag limits
// for critical databases.
func (h *DatabaseHandler) Suggest(current map[string]interface{}, hctx Context) []Suggestion {
	var suggestions []Suggestion

	if ssl, ok := current["ssl"].(bool); ok && !ssl && hctx.Environment == "production" {
		suggestions = append(suggestions, Suggestion{
			Parameter: "ssl", Current: false, Suggested: true,
			Reason: "production database connections should be encrypted",
		})
	}
	if v, ok := current["replication_lag"]; ok && hctx.Criticality == "critical" {
		if warn, crit, parsed := levelsPair(v); parsed && crit > 30 {
			suggestions = append(suggestions, Suggestion{
				Parameter: "replication_lag",
				Current:   []interface{}{warn, crit},
				Suggested: []interface{}{10.0, 30.0},
				Reason:    "critical databases should alert on replication lag within 30s",
			})
		}
	}
	return suggestions
}
