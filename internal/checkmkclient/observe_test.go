package checkmkclient

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ObserveRequestHook(t *testing.T) {
	type observation struct {
		family, outcome string
	}
	var observed []observation

	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"version":"2.4.0p1"}`))
	})
	defer srv.Close()
	c.cfg.ObserveRequest = func(family, outcome string, d time.Duration) {
		observed = append(observed, observation{family, outcome})
	}

	_, err := c.Version(context.Background())
	require.NoError(t, err)
	require.Len(t, observed, 1)
	assert.Equal(t, observation{"system", "success"}, observed[0])
}

func TestClient_ObserveRequestHookOnFailure(t *testing.T) {
	var outcomes []string

	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer srv.Close()
	c.cfg.ObserveRequest = func(family, outcome string, d time.Duration) {
		outcomes = append(outcomes, outcome)
	}

	_, err := c.GetHost(context.Background(), "ghost", false)
	require.Error(t, err)
	assert.Equal(t, []string{"error"}, outcomes)
}
