// Package checkmkclient is the typed façade over the Checkmk REST API
// (v1.0, Checkmk >= 2.4): hosts, services, rules,
// events, metrics, BI aggregations and system info, all reached through a
// single *Client that injects X-Request-ID, applies the retry+circuit-breaker
// pair per endpoint family, and classifies failures into the typed error
// taxonomy in errors.go.
package checkmkclient
