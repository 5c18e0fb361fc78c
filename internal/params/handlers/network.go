package handlers

import (
	"fmt"
	"net/url"
	"strings"
)

// protoDefaults holds per-protocol default parameter sets for the network
// handler. Times are seconds as (warn, crit) pairs.
var protoDefaults = map[string]map[string]interface{}{
	"http": {
		"response_time":   []interface{}{1.0, 2.0},
		"timeout":         10.0,
		"expected_status": 200.0,
	},
	"https": {
		"response_time":   []interface{}{1.0, 2.0},
		"timeout":         10.0,
		"expected_status": 200.0,
		"cert_age":        []interface{}{30.0, 7.0}, // days remaining, descending
		"verify_cert":     true,
	},
	"tcp": {
		"connect_time": []interface{}{0.5, 1.0},
		"timeout":      10.0,
	},
	"udp": {
		"response_time": []interface{}{0.5, 1.0},
		"timeout":       5.0,
	},
	"dns": {
		"resolve_time":  []interface{}{0.5, 1.0},
		"record_type":   "A",
		"timeout":       5.0,
	},
	"ssh":  {"connect_time": []interface{}{1.0, 2.0}, "timeout": 10.0},
	"ftp":  {"connect_time": []interface{}{1.0, 2.0}, "timeout": 10.0},
	"smtp": {"connect_time": []interface{}{1.0, 2.0}, "timeout": 10.0},
	"imap": {"connect_time": []interface{}{1.0, 2.0}, "timeout": 10.0},
	"pop3": {"connect_time": []interface{}{1.0, 2.0}, "timeout": 10.0},
}

// NetworkHandler owns the active-check network rulesets: HTTP/HTTPS, TCP,
// UDP, DNS and the basic-availability mail/shell protocols.
type NetworkHandler struct{}

// NewNetworkHandler constructs the network handler.
func NewNetworkHandler() *NetworkHandler { return &NetworkHandler{} }

func (h *NetworkHandler) Name() string  { return "network" }
func (h *NetworkHandler) Priority() int { return 80 }

func (h *NetworkHandler) ServicePatterns() []string {
	return []string{
		`(?i)\bhttps?\b`, `(?i)\btcp\b`, `(?i)\budp\b`, `(?i)\bdns\b`,
		`(?i)\bssh\b`, `(?i)\bftp\b`, `(?i)\bsmtp\b`, `(?i)\bimap\b`, `(?i)\bpop3?\b`,
		`(?i)certificate`, `(?i)\burl\b`,
	}
}

func (h *NetworkHandler) RulesetPatterns() []string {
	return []string{`active_checks:(http|tcp|dns|ssh|ftp|smtp|icmp)`, `\bhttp\b`}
}

func (h *NetworkHandler) DefaultRuleset() string {
	return "active_checks:http"
}

// detectProtocol infers the protocol family from a service description.
func detectProtocol(service string) string {
	lower := strings.ToLower(service)
	for _, proto := range []string{"https", "http", "dns", "ssh", "ftp", "smtp", "imap", "pop3", "udp", "tcp"} {
		if strings.Contains(lower, proto) {
			return proto
		}
	}
	if strings.Contains(lower, "cert") {
		return "https"
	}
	return "tcp"
}

// Defaults returns per-protocol defaults, tightening response times for
// critical services.
func (h *NetworkHandler) Defaults(service string, hctx Context) map[string]interface{} {
	proto := detectProtocol(service)
	defaults := protoDefaults[proto]

	out := make(map[string]interface{}, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}

	if hctx.Criticality == "critical" {
		for _, key := range []string{"response_time", "connect_time", "resolve_time"} {
			if _, ok := out[key]; ok {
				out[key] = []interface{}{0.5, 1.0}
			}
		}
	}
	return out
}

// Normalize coerces integral thresholds to float.
func (h *NetworkHandler) Normalize(params map[string]interface{}) (map[string]interface{}, []string) {
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		out[k] = coerceLevels(coerceFloat(v))
	}
	return out, nil
}

// Validate rejects malformed URLs and hostnames and checks threshold pairs.
func (h *NetworkHandler) Validate(params map[string]interface{}) []Issue {
	var issues []Issue

	if raw, ok := params["url"].(string); ok {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			issues = append(issues, Issue{
				Severity: SeverityError, Path: "url",
				Message:      fmt.Sprintf("%q is not a valid http(s) URL", raw),
				SuggestedFix: "e.g. https://example.com/health",
			})
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
				Message: fmt.Sprintf("port %v is outside 1-65535", port),
			})
		}
	}

	for _, key := range []string{"response_time", "connect_time", "resolve_time"} {
		v, ok := params[key]
		if !ok {
			continue
		}
		if warn, crit, parsed := levelsPair(v); parsed && warn >= crit {
			issues = append(issues, Issue{
				Severity: SeverityError, Path: key,
				Message:      fmt.Sprintf("warning %.2fs must be below critical %.2fs", warn, crit),
				SuggestedFix: "e.g. [1.0, 2.0]",
			})
		}
	}

	if v, ok := params["cert_age"]; ok {
		if warn, crit, parsed := levelsPair(v); parsed && warn <= crit {
			issues = append(issues, Issue{
				Severity: SeverityError, Path: "cert_age",
				Message:      fmt.Sprintf("cert_age thresholds are days remaining and descending: warning %.0f must be above critical %.0f", warn, crit),
				SuggestedFix: "e.g. [30, 7] to warn 30 days before expiry",
			})
		}
	}

	if status, ok := params["expected_status"]; ok {
		s, isNum := asFloat(status)
		if !isNum || s < 100 || s > 599 {
			issues = append(issues, Issue{
				Severity: SeverityError, Path: "expected_status",
				Message: fmt.Sprintf("%v is not a valid HTTP status code", status),
			})
		}
	}
	return issues
}

// Suggest proposes certificate monitoring for HTTPS endpoints that lack it.
func (h *NetworkHandler) Suggest(current map[string]interface{}, hctx Context) []Suggestion {
	var suggestions []Suggestion

	if raw, ok := current["url"].(string); ok && strings.HasPrefix(raw, "https://") {
		if _, hasCert := current["cert_age"]; !hasCert {
			suggestions = append(suggestions, Suggestion{
				Parameter: "cert_age",
				Suggested: []interface{}{30.0, 7.0},
				Reason:    "HTTPS endpoints should alert before the certificate expires",
			})
		}
		if verify, ok := current["verify_cert"].(bool); ok && !verify {
			suggestions = append(suggestions, Suggestion{
				Parameter: "verify_cert", Current: false, Suggested: true,
				Reason: "disabling certificate verification hides expiry and MITM problems",
			})
		}
	}
	return suggestions
}
