package services

import (
	"context"
	"sort"
	"strings"

	"checkmkmcp/internal/checkmkclient"
)

// StatusAPI is the slice of the REST client the status service needs.
type StatusAPI interface {
	ListAllServices(ctx context.Context, p checkmkclient.ListAllServicesParams) ([]checkmkclient.Service, error)
	ListHosts(ctx context.Context, p checkmkclient.ListHostsParams) ([]checkmkclient.Host, error)
	ListHostServices(ctx context.Context, hostName string) ([]checkmkclient.Service, error)
}

// StatusService implements the monitoring tool category: dashboards,
// critical-problem listing, and per-host health analysis.
type StatusService struct {
	api StatusAPI
}

// NewStatusService constructs a StatusService.
func NewStatusService(api StatusAPI) *StatusService {
	return &StatusService{api: api}
}

// StateCounts aggregates service counts by state.
type StateCounts struct {
	OK      int `json:"ok"`
	Warn    int `json:"warn"`
	Crit    int `json:"crit"`
	Unknown int `json:"unknown"`
}

// Dashboard is the aggregate health view.
type Dashboard struct {
	TotalServices     int            `json:"total_services"`
	States            StateCounts    `json:"states"`
	Acknowledged      int            `json:"acknowledged"`
	InDowntime        int            `json:"in_downtime"`
	HealthPercent     float64        `json:"health_percent"`
	Grade             string         `json:"grade"`
	ProblemCategories map[string]int `json:"problem_categories,omitempty"`
}

// Problem is one service in a non-OK state.
type Problem struct {
	Host         string `json:"host"`
	Service      string `json:"service"`
	State        string `json:"state"`
	StateType    string `json:"state_type"`
	Acknowledged bool   `json:"acknowledged"`
	InDowntime   bool   `json:"in_downtime"`
	Category     string `json:"category"`
	Output       string `json:"output,omitempty"`
}

// GetDashboard computes the aggregate health dashboard across all services.
func (s *StatusService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	services, err := s.api.ListAllServices(ctx, checkmkclient.ListAllServicesParams{})
	if err != nil {
		return nil, err
	}

	d := &Dashboard{TotalServices: len(services), ProblemCategories: map[string]int{}}
	for _, svc := range services {
		switch svc.State {
		case checkmkclient.StateOK:
			d.States.OK++
		case checkmkclient.StateWarn:
			d.States.Warn++
		case checkmkclient.StateCrit:
			d.States.Crit++
		default:
			d.States.Unknown++
		}
		if svc.Acknowledged {
			d.Acknowledged++
		}
		if svc.InDowntime {
			d.InDowntime++
		}
		if svc.State != checkmkclient.StateOK {
			d.ProblemCategories[categorizeProblem(svc)]++
		}
	}

	d.HealthPercent = healthPercent(d.States.OK, d.TotalServices)
	d.Grade = healthGrade(d.HealthPercent)
	return d, nil
}

// GetCriticalProblems lists unhandled critical services: CRIT state, not
// acknowledged, not in downtime.
func (s *StatusService) GetCriticalProblems(ctx context.Context) ([]Problem, error) {
	crit := checkmkclient.StateCrit
	services, err := s.api.ListAllServices(ctx, checkmkclient.ListAllServicesParams{StateFilter: &crit})
	if err != nil {
		return nil, err
	}

	problems := make([]Problem, 0, len(services))
	for _, svc := range services {
		if svc.Acknowledged || svc.InDowntime {
			continue
		}
		problems = append(problems, problemFromService(svc))
	}
	return problems, nil
}

// HostHealth is the per-host analysis result.
type HostHealth struct {
	Host          string      `json:"host"`
	TotalServices int         `json:"total_services"`
	States        StateCounts `json:"states"`
	HealthPercent float64     `json:"health_percent"`
	Grade         string      `json:"grade"`
	Problems      []Problem   `json:"problems,omitempty"`
}

// AnalyzeHostHealth computes health for a single host, listing its current
// problems worst-first.
func (s *StatusService) AnalyzeHostHealth(ctx context.Context, hostName string) (*HostHealth, error) {
	services, err := s.api.ListHostServices(ctx, hostName)
	if err != nil {
		return nil, err
	}

	h := &HostHealth{Host: hostName, TotalServices: len(services)}
	for _, svc := range services {
		switch svc.State {
		case checkmkclient.StateOK:
			h.States.OK++
		case checkmkclient.StateWarn:
			h.States.Warn++
		case checkmkclient.StateCrit:
			h.States.Crit++
		default:
			h.States.Unknown++
		}
		if svc.State != checkmkclient.StateOK {
			h.Problems = append(h.Problems, problemFromService(svc))
		}
	}

	sort.SliceStable(h.Problems, func(i, j int) bool {
		return problemRank(h.Problems[i].State) > problemRank(h.Problems[j].State)
	})

	h.HealthPercent = healthPercent(h.States.OK, h.TotalServices)
	h.Grade = healthGrade(h.HealthPercent)
	return h, nil
}

// InfrastructureSummary is the fleet-wide overview.
type InfrastructureSummary struct {
	TotalHosts    int         `json:"total_hosts"`
	TotalServices int         `json:"total_services"`
	States        StateCounts `json:"states"`
	HealthPercent float64     `json:"health_percent"`
	Grade         string      `json:"grade"`
}

// GetInfrastructureSummary combines host and service totals into one view.
func (s *StatusService) GetInfrastructureSummary(ctx context.Context) (*InfrastructureSummary, error) {
	hosts, err := s.api.ListHosts(ctx, checkmkclient.ListHostsParams{})
	if err != nil {
		return nil, err
	}
	dashboard, err := s.GetDashboard(ctx)
	if err != nil {
		return nil, err
	}
	return &InfrastructureSummary{
		TotalHosts:    len(hosts),
		TotalServices: dashboard.TotalServices,
		States:        dashboard.States,
		HealthPercent: dashboard.HealthPercent,
		Grade:         dashboard.Grade,
	}, nil
}

func problemFromService(svc checkmkclient.Service) Problem {
	return Problem{
		Host:         svc.HostName,
		Service:      svc.Description,
		State:        svc.State.String(),
		StateType:    svc.StateType,
		Acknowledged: svc.Acknowledged,
		InDowntime:   svc.InDowntime,
		Category:     categorizeProblem(svc),
		Output:       svc.PluginOutput,
	}
}

func problemRank(state string) int {
	switch state {
	case "CRIT":
		return 3
	case "UNKNOWN":
		return 2
	case "WARN":
		return 1
	default:
		return 0
	}
}

func healthPercent(ok, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(ok) / float64(total) * 100
}

// healthGrade maps a %OK figure onto a report-card grade.
func healthGrade(percent float64) string {
	switch {
	case percent >= 99:
		return "A+"
	case percent >= 97:
		return "A"
	case percent >= 93:
		return "B"
	case percent >= 85:
		return "C"
	case percent >= 75:
		return "D"
	default:
		return "F"
	}
}

// problemCategoryKeywords buckets non-OK services by what subsystem the
// problem points at.
var problemCategoryKeywords = []struct {
	category string
	keywords []string
}{
	{"network", []string{"interface", "ping", "dns", "http", "nic", "bandwidth", "link"}},
	{"disk", []string{"filesystem", "disk", "raid", "smart", "mount", "inode"}},
	{"performance", []string{"cpu", "memory", "load", "swap", "util"}},
	{"connectivity", []string{"ssh", "tcp", "port", "connection", "socket"}},
	{"monitoring", []string{"check_mk", "agent", "discovery"}},
}

func categorizeProblem(svc checkmkclient.Service) string {
	text := strings.ToLower(svc.Description + " " + svc.PluginOutput)
	for _, bucket := range problemCategoryKeywords {
		for _, kw := range bucket.keywords {
			if strings.Contains(text, kw) {
				return bucket.category
			}
		}
	}
	return "other"
}
