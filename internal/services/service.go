package services

import (
	"context"
	"fmt"
	"time"

	"checkmkmcp/internal/cache"
	"checkmkmcp/internal/checkmkclient"
	"checkmkmcp/internal/requestid"
	"checkmkmcp/pkg/logging"
)

// ServiceAPI is the slice of the REST client the service-operations facade
// needs.
type ServiceAPI interface {
	ListAllServices(ctx context.Context, p checkmkclient.ListAllServicesParams) ([]checkmkclient.Service, error)
	AcknowledgeProblem(ctx context.Context, p checkmkclient.AcknowledgeParams) error
	CreateDowntime(ctx context.Context, p checkmkclient.DowntimeParams) error
}

// ServiceService implements the service tool category: cross-host listing,
// problem acknowledgment, and downtime scheduling.
type ServiceService struct {
	api      ServiceAPI
	cache    *cache.Cache
	cacheTTL time.Duration
}

// NewServiceService constructs a ServiceService.
func NewServiceService(api ServiceAPI, c *cache.Cache, cacheTTL time.Duration) *ServiceService {
	return &ServiceService{api: api, cache: c, cacheTTL: cacheTTL}
}

// ServiceList is the ListAll result.
type ServiceList struct {
	Services []checkmkclient.Service `json:"services"`
	Count    int                     `json:"count"`
}

// ListAll lists services across all hosts, optionally filtered by host and
// state.
func (s *ServiceService) ListAll(ctx context.Context, p checkmkclient.ListAllServicesParams) (*ServiceList, error) {
	key := fmt.Sprintf("services:all:%s:%v", p.HostFilter, p.StateFilter)
	v, err := s.cache.GetOrLoad(ctx, key, s.cacheTTL, func(ctx context.Context) (interface{}, error) {
		return s.api.ListAllServices(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	services := v.([]checkmkclient.Service)
	return &ServiceList{Services: services, Count: len(services)}, nil
}

// Acknowledge acknowledges a service problem. Monitoring-state caches for
// the host are dropped so the acknowledged flag shows up on the next read.
func (s *ServiceService) Acknowledge(ctx context.Context, p checkmkclient.AcknowledgeParams) error {
	err := s.api.AcknowledgeProblem(ctx, p)
	logging.Audit(logging.AuditEvent{
		Action:    "acknowledge_service_problem",
		Outcome:   auditOutcome(err),
		RequestID: requestid.FromContext(ctx),
		Target:    p.HostName + "/" + p.Description,
		Details:   fmt.Sprintf("sticky=%t persistent=%t", p.Sticky, p.Persistent),
		Error:     errString(err),
	})
	if err != nil {
		return err
	}
	s.invalidateMonitoring(p.HostName)
	return nil
}

// CreateDowntime schedules a downtime window for a service.
func (s *ServiceService) CreateDowntime(ctx context.Context, p checkmkclient.DowntimeParams) error {
	err := s.api.CreateDowntime(ctx, p)
	logging.Audit(logging.AuditEvent{
		Action:    "create_service_downtime",
		Outcome:   auditOutcome(err),
		RequestID: requestid.FromContext(ctx),
		Target:    p.HostName + "/" + p.Description,
		Details:   fmt.Sprintf("start=%s end=%s", p.Start.Format(time.RFC3339), p.End.Format(time.RFC3339)),
		Error:     errString(err),
	})
	if err != nil {
		return err
	}
	s.invalidateMonitoring(p.HostName)
	return nil
}

func (s *ServiceService) invalidateMonitoring(hostName string) {
	s.cache.InvalidatePattern("services:all:*")
	s.cache.Invalidate("services:host:" + hostName)
}

func auditOutcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

func errString(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}
