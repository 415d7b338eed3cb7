// ABOUTME: Read-only dashboard queries over the pipeline
// ABOUTME: Workload analytics, territory breakdown, rep roster and audit trail
package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/nehemiah-ic/rv-takehome/workload"
)

// DefaultAuditLimit caps audit trail queries that do not set a limit.
const DefaultAuditLimit = 50

// WorkloadAnalytics reports utilization for every rep in storage.
func (s *Service) WorkloadAnalytics(ctx context.Context) (*workload.Analytics, error) {
	reps, err := s.store.ListSalesReps(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales reps: %w", err)
	}
	deals, err := s.store.FindAllDeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}

	roster := make([]string, 0, len(reps))
	for _, r := range reps {
		roster = append(roster, r.Name)
	}

	report := s.thresholds.Analyze(roster, deals)
	return &report, nil
}

// Deals lists every deal with its sales rep joined in.
func (s *Service) Deals(ctx context.Context) ([]models.Deal, error) {
	deals, err := s.store.FindAllDeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}
	return deals, nil
}

// TerritoryAnalytics groups all deals by territory.
func (s *Service) TerritoryAnalytics(ctx context.Context) ([]workload.TerritoryStats, int, error) {
	deals, err := s.store.FindAllDeals(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch deals: %w", err)
	}
	return workload.TerritoryBreakdown(deals), len(deals), nil
}

// SalesRepNames lists active reps by name, sorted.
func (s *Service) SalesRepNames(ctx context.Context) ([]string, error) {
	reps, err := s.store.ListSalesReps(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales reps: %w", err)
	}
	names := []string{}
	for _, r := range reps {
		if r.Active {
			names = append(names, r.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// AuditTrail returns audit entries newest first, optionally for one deal.
func (s *Service) AuditTrail(ctx context.Context, dealID *int64, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	logs, err := s.store.FindAuditLogs(ctx, dealID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit trail: %w", err)
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	return logs, nil
}
