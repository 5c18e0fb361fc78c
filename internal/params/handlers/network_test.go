package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetwork_DefaultsPerProtocol(t *testing.T) {
	h := NewNetworkHandler()

	https := h.Defaults("HTTPS example.com", Context{})
	assert.Contains(t, https, "cert_age")
	assert.Equal(t, true, https["verify_cert"])

	http := h.Defaults("HTTP health endpoint", Context{})
	assert.NotContains(t, http, "cert_age")
	assert.Equal(t, 200.0, http["expected_status"])

	dns := h.Defaults("DNS resolver", Context{})
	assert.Equal(t, "A", dns["record_type"])

	tcp := h.Defaults("TCP port 5432", Context{})
	assert.Contains(t, tcp, "connect_time")
}

func TestNetwork_CriticalTightensResponseTimes(t *testing.T) {
	h := NewNetworkHandler()
	defaults := h.Defaults("HTTP api gateway", Context{Criticality: "critical"})
	assert.Equal(t, []interface{}{0.5, 1.0}, defaults["response_time"])
}

func TestNetwork_ValidateURL(t *testing.T) {
	h := NewNetworkHandler()

	assert.Empty(t, h.Validate(map[string]interface{}{"url": "https://example.com/health"}))

	for _, bad := range []string{"not a url", "ftp://example.com", "https://", "://nope"} {
		issues := h.Validate(map[string]interface{}{"url": bad})
		require.Len(t, issues, 1, "url %q", bad)
		assert.Equal(t, "url", issues[0].Path)
	}
}

func TestNetwork_ValidateCertAgeDescending(t *testing.T) {
	h := NewNetworkHandler()

	assert.Empty(t, h.Validate(map[string]interface{}{"cert_age": []interface{}{30.0, 7.0}}))

	issues := h.Validate(map[string]interface{}{"cert_age": []interface{}{7.0, 30.0}})
	require.Len(t, issues, 1)
	assert.Equal(t, "cert_age", issues[0].Path)
}

func TestNetwork_ValidateExpectedStatus(t *testing.T) {
	h := NewNetworkHandler()
	issues := h.Validate(map[string]interface{}{"expected_status": 999})
	require.Len(t, issues, 1)
	assert.Equal(t, "expected_status", issues[0].Path)
}

func TestNetwork_SuggestCertMonitoringForHTTPS(t *testing.T) {
	h := NewNetworkHandler()

	suggestions := h.Suggest(map[string]interface{}{"url": "https://example.com"}, Context{})
	require.Len(t, suggestions, 1)
	assert.Equal(t, "cert_age", suggestions[0].Parameter)

	suggestions = h.Suggest(map[string]interface{}{
		"url":         "https://example.com",
		"cert_age":    []interface{}{30.0, 7.0},
		"verify_cert": false,
	}, Context{})
	require.Len(t, suggestions, 1)
	assert.Equal(t, "verify_cert", suggestions[0].Parameter)
}
