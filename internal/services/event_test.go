package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkmkmcp/internal/checkmkclient"
)

type fakeEventAPI struct {
	events []checkmkclient.Event
	acked  []string
}

func (f *fakeEventAPI) ListEvents(ctx context.Context, q checkmkclient.EventQuery) ([]checkmkclient.Event, error) {
	return f.events, nil
}

func (f *fakeEventAPI) AcknowledgeEvent(ctx context.Context, id, comment string) error {
	f.acked = append(f.acked, id)
	return nil
}

func TestEventService_EmptyListIsSuccess(t *testing.T) {
	svc := NewEventService(&fakeEventAPI{})

	list, err := svc.ListServiceEvents(context.Background(), "x", "y", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, list.Count)
	assert.NotNil(t, list.Events)
	assert.Equal(t, "no events", list.Message)
}

func TestEventService_ListAppliesLimit(t *testing.T) {
	svc := NewEventService(&fakeEventAPI{events: []checkmkclient.Event{
		{ID: "1"}, {ID: "2"}, {ID: "3"},
	}})

	list, err := svc.ListHostEvents(context.Background(), "h1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Count)
	assert.Empty(t, list.Message)
}

func TestEventService_RecentCriticalSortsNewestFirst(t *testing.T) {
	svc := NewEventService(&fakeEventAPI{events: []checkmkclient.Event{
		{ID: "old", State: checkmkclient.StateCrit, Time: 100},
		{ID: "ok", State: checkmkclient.StateOK, Time: 300},
		{ID: "new", State: checkmkclient.StateCrit, Time: 200},
	}})

	list, err := svc.GetRecentCritical(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "new", list.Events[0].ID)
	assert.Equal(t, "old", list.Events[1].ID)
}

func TestEventService_Acknowledge(t *testing.T) {
	api := &fakeEventAPI{}
	svc := NewEventService(api)

	require.NoError(t, svc.Acknowledge(context.Background(), "ev-1", "handled"))
	assert.Equal(t, []string{"ev-1"}, api.acked)
}
