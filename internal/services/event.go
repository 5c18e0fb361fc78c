package services

import (
	"context"
	"sort"

	"checkmkmcp/internal/checkmkclient"
	"checkmkmcp/internal/requestid"
	"checkmkmcp/pkg/logging"
)

// EventAPI is the slice of the REST client the event service needs.
type EventAPI interface {
	ListEvents(ctx context.Context, q checkmkclient.EventQuery) ([]checkmkclient.Event, error)
	AcknowledgeEvent(ctx context.Context, id, comment string) error
}

// EventService implements the event tool category over the Checkmk Event
// Console. An empty event list is always a success with count zero, never
// an error.
type EventService struct {
	api EventAPI
}

// NewEventService constructs an EventService.
func NewEventService(api EventAPI) *EventService {
	return &EventService{api: api}
}

// EventList is the uniform listing result.
type EventList struct {
	Events  []checkmkclient.Event `json:"events"`
	Count   int                   `json:"count"`
	Message string                `json:"message,omitempty"`
}

func eventList(events []checkmkclient.Event, limit int) *EventList {
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	if events == nil {
		events = []checkmkclient.Event{}
	}
	out := &EventList{Events: events, Count: len(events)}
	if out.Count == 0 {
		out.Message = "no events"
	}
	return out
}

// ListServiceEvents lists Event Console entries for one (host, service).
func (s *EventService) ListServiceEvents(ctx context.Context, host, service string, limit int) (*EventList, error) {
	events, err := s.api.ListEvents(ctx, checkmkclient.EventQuery{Host: host, Service: service})
	if err != nil {
		return nil, err
	}
	return eventList(events, limit), nil
}

// ListHostEvents lists Event Console entries for one host.
func (s *EventService) ListHostEvents(ctx context.Context, host string, limit int) (*EventList, error) {
	events, err := s.api.ListEvents(ctx, checkmkclient.EventQuery{Host: host})
	if err != nil {
		return nil, err
	}
	return eventList(events, limit), nil
}

// GetRecentCritical lists critical events, newest first.
func (s *EventService) GetRecentCritical(ctx context.Context, limit int) (*EventList, error) {
	events, err := s.api.ListEvents(ctx, checkmkclient.EventQuery{})
	if err != nil {
		return nil, err
	}

	critical := make([]checkmkclient.Event, 0, len(events))
	for _, e := range events {
		if e.State == checkmkclient.StateCrit {
			critical = append(critical, e)
		}
	}
	sort.SliceStable(critical, func(i, j int) bool { return critical[i].Time > critical[j].Time })
	return eventList(critical, limit), nil
}

// Acknowledge acknowledges one Event Console entry.
func (s *EventService) Acknowledge(ctx context.Context, eventID, comment string) error {
	err := s.api.AcknowledgeEvent(ctx, eventID, comment)
	logging.Audit(logging.AuditEvent{
		Action:    "acknowledge_event",
		Outcome:   auditOutcome(err),
		RequestID: requestid.FromContext(ctx),
		Target:    eventID,
		Error:     errString(err),
	})
	return err
}

// Search lists events whose text matches a free-form query.
func (s *EventService) Search(ctx context.Context, query string, limit int) (*EventList, error) {
	events, err := s.api.ListEvents(ctx, checkmkclient.EventQuery{Search: query})
	if err != nil {
		return nil, err
	}
	return eventList(events, limit), nil
}
