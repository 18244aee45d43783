package procsim

import (
	"context"
	"sort"

	"github.com/viant/procsim/runtime/process"
	"github.com/viant/procsim/service/dao"
	"github.com/viant/procsim/service/dao/criteria"
)

// Report returns a persisted run report.
func (s *Service) Report(ctx context.Context, runID string) (*process.RunReport, error) {
	return s.reports.Load(ctx, runID)
}

// RunReports lists persisted reports ordered by start time, optionally
// restricted to the given run states.
func (s *Service) RunReports(ctx context.Context, states ...string) ([]*process.RunReport, error) {
	var parameters []*dao.Parameter
	if len(states) > 0 {
		parameters = append(parameters, &dao.Parameter{Name: criteria.StateParameter, Value: states})
	}
	reports, err := s.reports.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].StartedAt.Before(reports[j].StartedAt)
	})
	return reports, nil
}
