package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabase_DefaultsPerEngine(t *testing.T) {
	h := NewDatabaseHandler()

	oracle := h.Defaults("Oracle Tablespace USERS", Context{})
	assert.Equal(t, []interface{}{80.0, 90.0}, oracle["levels"])

	mysql := h.Defaults("MySQL Connections", Context{})
	assert.Contains(t, mysql, "connections")
	assert.Contains(t, mysql, "replication_lag")

	redis := h.Defaults("Redis Memory", Context{})
	assert.Contains(t, redis, "memory_usage")
	assert.NotContains(t, redis, "connections")
}

func TestDatabase_ProductionTightensReplicationLag(t *testing.T) {
	h := NewDatabaseHandler()
	prod := h.Defaults("PostgreSQL Replication", Context{Environment: "production"})
	assert.Equal(t, []interface{}{10.0, 30.0}, prod["replication_lag"])
}

func TestDatabase_ValidateConnectionParams(t *testing.T) {
	h := NewDatabaseHandler()

	issues := h.Validate(map[string]interface{}{
		"hostname": "db-01.example.com",
		"port":     3306,
		"ssl":      true,
	})
	assert.Empty(t, issues)

	issues = h.Validate(map[string]interface{}{"hostname": "-bad-"})
	require.Len(t, issues, 1)
	assert.Equal(t, "hostname", issues[0].Path)

	issues = h.Validate(map[string]interface{}{"port": 70000})
	require.Len(t, issues, 1)
	assert.Equal(t, "port", issues[0].Path)

	issues = h.Validate(map[string]interface{}{"ssl": "yes"})
	require.Len(t, issues, 1)
	assert.Equal(t, "ssl", issues[0].Path)
}

func TestDatabase_ValidateThresholdPairs(t *testing.T) {
	h := NewDatabaseHandler()

	issues := h.Validate(map[string]interface{}{"connections": []interface{}{90.0, 80.0}})
	require.Len(t, issues, 1)
	assert.Equal(t, "connections", issues[0].Path)

	// Hit-rate parameters are descending pairs: [90, 80] is correct,
	// [80, 90] is inverted.
	assert.Empty(t, h.Validate(map[string]interface{}{"hit_ratio": []interface{}{90.0, 80.0}}))
	issues = h.Validate(map[string]interface{}{"hit_ratio": []interface{}{80.0, 90.0}})
	require.Len(t, issues, 1)
	assert.Equal(t, "hit_ratio", issues[0].Path)
}

func TestDatabase_SuggestSSLInProduction(t *testing.T) {
	h := NewDatabaseHandler()
	suggestions := h.Suggest(map[string]interface{}{"ssl": false}, Context{Environment: "production"})
	require.Len(t, suggestions, 1)
	assert.Equal(t, "ssl", suggestions[0].Parameter)
	assert.Equal(t, true, suggestions[0].Suggested)
}

func TestDatabase_SuggestReplicationLagForCritical(t *testing.T) {
	h := NewDatabaseHandler()
	suggestions := h.Suggest(map[string]interface{}{
		"replication_lag": []interface{}{60.0, 120.0},
	}, Context{Criticality: "critical"})
	require.Len(t, suggestions, 1)
	assert.Equal(t, "replication_lag", suggestions[0].Parameter)
}
