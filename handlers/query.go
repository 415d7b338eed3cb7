// ABOUTME: Read-only pipeline query tool handlers
// ABOUTME: Implements workload_analytics, territory_analytics and audit_trail
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nehemiah-ic/rv-takehome/pipeline"
	"github.com/nehemiah-ic/rv-takehome/workload"
)

type QueryHandlers struct {
	svc *pipeline.Service
}

func NewQueryHandlers(svc *pipeline.Service) *QueryHandlers {
	return &QueryHandlers{svc: svc}
}

type WorkloadAnalyticsInput struct{}

type WorkloadAnalyticsOutput struct {
	TotalDeals        int                           `json:"total_deals"`
	TotalValue        float64                       `json:"total_value"`
	TotalReps         int                           `json:"total_reps"`
	AvgDealsPerRep    int64                         `json:"avg_deals_per_rep"`
	AvgValuePerRep    float64                       `json:"avg_value_per_rep"`
	OverloadedReps    int                           `json:"overloaded_reps"`
	UnderutilizedReps int                           `json:"underutilized_reps"`
	Reps              []RepWorkloadOutput           `json:"reps"`
	Recommendations   []workload.TeamRecommendation `json:"recommendations"`
}

type TerritoryAnalyticsInput struct{}

type TerritoryOutput struct {
	Territory      string         `json:"territory"`
	TotalDeals     int            `json:"total_deals"`
	TotalValue     float64        `json:"total_value"`
	AvgProbability int64          `json:"avg_probability"`
	SalesReps      []string       `json:"sales_reps"`
	DealsByStage   map[string]int `json:"deals_by_stage"`
}

type TerritoryAnalyticsOutput struct {
	Territories []TerritoryOutput `json:"territories"`
	TotalDeals  int               `json:"total_deals"`
}

type AuditTrailInput struct {
	DealID int64 `json:"deal_id,omitempty" jsonschema:"Only entries for this numeric deal id"`
	Limit  int   `json:"limit,omitempty" jsonschema:"Maximum entries to return (default 50)"`
}

type AuditEntryOutput struct {
	DealID     string `json:"deal_id"`
	Field      string `json:"field"`
	OldValue   string `json:"old_value,omitempty"`
	NewValue   string `json:"new_value,omitempty"`
	ChangedBy  string `json:"changed_by"`
	Reason     string `json:"reason,omitempty"`
	ChangedAt  string `json:"changed_at"`
	ChangeType string `json:"change_type"`
}

type AuditTrailOutput struct {
	Entries []AuditEntryOutput `json:"entries"`
	Count   int                `json:"count"`
}

func (h *QueryHandlers) WorkloadAnalytics(ctx context.Context, _ *mcp.CallToolRequest, _ WorkloadAnalyticsInput) (*mcp.CallToolResult, WorkloadAnalyticsOutput, error) {
	report, err := h.svc.WorkloadAnalytics(ctx)
	if err != nil {
		return nil, WorkloadAnalyticsOutput{}, fmt.Errorf("failed to compute workload analytics: %w", err)
	}

	reps := make([]RepWorkloadOutput, 0, len(report.RepWorkloads))
	for _, a := range report.RepWorkloads {
		reps = append(reps, repWorkloadToOutput(a))
	}

	s := report.Summary
	return nil, WorkloadAnalyticsOutput{
		TotalDeals:        s.TotalDeals,
		TotalValue:        s.TotalValue.InexactFloat64(),
		TotalReps:         s.TotalReps,
		AvgDealsPerRep:    s.AvgDealsPerRep,
		AvgValuePerRep:    s.AvgValuePerRep.InexactFloat64(),
		OverloadedReps:    s.OverloadedReps,
		UnderutilizedReps: s.UnderutilizedReps,
		Reps:              reps,
		Recommendations:   report.Recommendations,
	}, nil
}

func (h *QueryHandlers) TerritoryAnalytics(ctx context.Context, _ *mcp.CallToolRequest, _ TerritoryAnalyticsInput) (*mcp.CallToolResult, TerritoryAnalyticsOutput, error) {
	stats, total, err := h.svc.TerritoryAnalytics(ctx)
	if err != nil {
		return nil, TerritoryAnalyticsOutput{}, fmt.Errorf("failed to compute territory analytics: %w", err)
	}

	out := TerritoryAnalyticsOutput{Territories: make([]TerritoryOutput, 0, len(stats)), TotalDeals: total}
	for _, t := range stats {
		out.Territories = append(out.Territories, TerritoryOutput{
			Territory:      t.Territory,
			TotalDeals:     t.TotalDeals,
			TotalValue:     t.TotalValue.InexactFloat64(),
			AvgProbability: t.AvgProbability,
			SalesReps:      t.SalesReps,
			DealsByStage:   t.DealsByStage,
		})
	}
	return nil, out, nil
}

func (h *QueryHandlers) AuditTrail(ctx context.Context, _ *mcp.CallToolRequest, input AuditTrailInput) (*mcp.CallToolResult, AuditTrailOutput, error) {
	var dealID *int64
	if input.DealID != 0 {
		dealID = &input.DealID
	}

	logs, err := h.svc.AuditTrail(ctx, dealID, input.Limit)
	if err != nil {
		return nil, AuditTrailOutput{}, fmt.Errorf("failed to fetch audit trail: %w", err)
	}

	entries := make([]AuditEntryOutput, 0, len(logs))
	for _, l := range logs {
		e := AuditEntryOutput{
			DealID:     l.DealIdentifier,
			Field:      l.FieldChanged,
			ChangedBy:  l.ChangedBy,
			Reason:     l.Reason,
			ChangedAt:  l.ChangedAt.Format("2006-01-02 15:04:05"),
			ChangeType: l.ChangeType,
		}
		if l.OldValue != nil {
			e.OldValue = *l.OldValue
		}
		if l.NewValue != nil {
			e.NewValue = *l.NewValue
		}
		entries = append(entries, e)
	}

	return nil, AuditTrailOutput{Entries: entries, Count: len(entries)}, nil
}
