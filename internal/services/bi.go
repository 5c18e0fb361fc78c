package services

import (
	"context"

	"checkmkmcp/internal/checkmkclient"
)

// BIAPI is the slice of the REST client the business-intelligence service
// needs.
type BIAPI interface {
	ListAggregations(ctx context.Context) ([]checkmkclient.BIAggregation, error)
	CriticalAggregations(ctx context.Context) ([]checkmkclient.BIAggregation, error)
}

// BIService implements the business tool category over Checkmk BI
// aggregations.
type BIService struct {
	api BIAPI
}

// NewBIService constructs a BIService.
func NewBIService(api BIAPI) *BIService {
	return &BIService{api: api}
}

// BISummary is the aggregate business status.
type BISummary struct {
	Total        int                           `json:"total"`
	States       StateCounts                   `json:"states"`
	Aggregations []checkmkclient.BIAggregation `json:"aggregations"`
}

// GetStatusSummary summarizes all BI aggregations by state.
func (s *BIService) GetStatusSummary(ctx context.Context) (*BISummary, error) {
	aggregations, err := s.api.ListAggregations(ctx)
	if err != nil {
		return nil, err
	}

	summary := &BISummary{Total: len(aggregations), Aggregations: aggregations}
	for _, a := range aggregations {
		switch a.State {
		case checkmkclient.StateOK:
			summary.States.OK++
		case checkmkclient.StateWarn:
			summary.States.Warn++
		case checkmkclient.StateCrit:
			summary.States.Crit++
		default:
			summary.States.Unknown++
		}
	}
	return summary, nil
}

// GetCritical lists only the aggregations currently in a non-OK state.
func (s *BIService) GetCritical(ctx context.Context) ([]checkmkclient.BIAggregation, error) {
	critical, err := s.api.CriticalAggregations(ctx)
	if err != nil {
		return nil, err
	}
	if critical == nil {
		critical = []checkmkclient.BIAggregation{}
	}
	return critical, nil
}
