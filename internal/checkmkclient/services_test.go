package checkmkclient

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListAllServices_DecodesStateZeroAsOK(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":[{"title":"CPU load","extensions":{"host_name":"srv1","state":0,"acknowledged":false}}]}`))
	})
	defer srv.Close()

	svcs, err := c.ListAllServices(context.Background(), ListAllServicesParams{})
	require.NoError(t, err)
	require.Len(t, svcs, 1)
	assert.Equal(t, StateOK, svcs[0].State)
	assert.Equal(t, "CPU load", svcs[0].Description)
}

func TestClient_ListAllServices_SendsFilters(t *testing.T) {
	var gotBody map[string]interface{}
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"value":[]}`))
	})
	defer srv.Close()

	crit := ServiceState(2)
	_, err := c.ListAllServices(context.Background(), ListAllServicesParams{HostFilter: "srv1", StateFilter: &crit})
	require.NoError(t, err)
	assert.Equal(t, "srv1", gotBody["host_name"])
	assert.Equal(t, float64(2), gotBody["state"])
}

func TestClient_AcknowledgeProblem_SendsExpectedBody(t *testing.T) {
	var gotBody map[string]interface{}
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	})
	defer srv.Close()

	err := c.AcknowledgeProblem(context.Background(), AcknowledgeParams{
		HostName: "srv1", Description: "CPU load", Comment: "investigating", Sticky: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "srv1", gotBody["host_name"])
	assert.Equal(t, "investigating", gotBody["comment"])
	assert.Equal(t, true, gotBody["sticky"])
}

func TestClient_CreateDowntime_FormatsTimestamps(t *testing.T) {
	var gotBody map[string]interface{}
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	})
	defer srv.Close()

	start := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	err := c.CreateDowntime(context.Background(), DowntimeParams{
		HostName: "srv1", Description: "CPU load", Comment: "maintenance", Start: start, End: end,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-07-31T10:00:00Z", gotBody["start_time"])
	assert.Equal(t, "2026-07-31T12:00:00Z", gotBody["end_time"])
}
