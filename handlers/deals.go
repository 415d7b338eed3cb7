// ABOUTME: Deal reassignment MCP tool handlers
// ABOUTME: Implements preview_bulk_reassign, bulk_reassign, reassign_deal and update_deal_territory
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/nehemiah-ic/rv-takehome/pipeline"
	"github.com/nehemiah-ic/rv-takehome/workload"
)

type DealHandlers struct {
	svc *pipeline.Service
}

func NewDealHandlers(svc *pipeline.Service) *DealHandlers {
	return &DealHandlers{svc: svc}
}

type PreviewBulkInput struct {
	DealIDs      []int64 `json:"deal_ids" jsonschema:"Numeric ids of the deals to move (required)"`
	SalesRepName string  `json:"sales_rep_name" jsonschema:"Name of the sales rep who would receive the deals (required)"`
}

// RepWorkloadOutput flattens a workload aggregate for tool output. Money is
// reported as a plain number.
type RepWorkloadOutput struct {
	SalesRep         string         `json:"sales_rep"`
	DealCount        int            `json:"deal_count"`
	TotalValue       float64        `json:"total_value"`
	AvgDealValue     float64        `json:"avg_deal_value"`
	Territories      []string       `json:"territories"`
	DealsByStage     map[string]int `json:"deals_by_stage"`
	UtilizationLevel string         `json:"utilization_level"`
	Recommendations  []string       `json:"recommendations"`
}

type PreviewBulkOutput struct {
	TotalDeals        int                   `json:"total_deals"`
	TotalValue        float64               `json:"total_value"`
	AffectedReps      []string              `json:"affected_reps"`
	Changes           []workload.DealChange `json:"changes"`
	CurrentWorkload   []RepWorkloadOutput   `json:"current_workload"`
	ProjectedWorkload []RepWorkloadOutput   `json:"projected_workload"`
	Conflicts         []models.Conflict     `json:"conflicts"`
	Warnings          []models.Warning      `json:"warnings"`
}

type BulkReassignInput struct {
	DealIDs      []int64 `json:"deal_ids" jsonschema:"Numeric ids of the deals to move (required)"`
	SalesRepName string  `json:"sales_rep_name" jsonschema:"Name of the receiving sales rep (required)"`
	Reason       string  `json:"reason" jsonschema:"Why the deals are being moved, recorded in the audit trail (required)"`
	ChangedBy    string  `json:"changed_by,omitempty" jsonschema:"Who is making the change (default System User)"`
}

type BulkReassignOutput struct {
	Message      string `json:"message"`
	BatchID      string `json:"batch_id"`
	UpdatedDeals int    `json:"updated_deals"`
	AuditEntries int    `json:"audit_entries"`
	TotalDeals   int    `json:"total_deals"`
}

type ReassignDealInput struct {
	DealID    int64  `json:"deal_id" jsonschema:"Numeric deal id (required)"`
	SalesRep  string `json:"sales_rep" jsonschema:"Name of the new sales rep (required)"`
	Reason    string `json:"reason,omitempty" jsonschema:"Reason recorded in the audit trail"`
	ChangedBy string `json:"changed_by,omitempty" jsonschema:"Who is making the change (default System User)"`
}

type UpdateTerritoryInput struct {
	DealID    int64  `json:"deal_id" jsonschema:"Numeric deal id (required)"`
	Territory string `json:"territory" jsonschema:"One of: West Coast, East Coast, Midwest, South, Southwest, Mountain West, Northeast, Southeast"`
	ChangedBy string `json:"changed_by,omitempty" jsonschema:"Who is making the change (default System User)"`
}

type DealOutput struct {
	ID          int64   `json:"id"`
	DealID      string  `json:"deal_id"`
	CompanyName string  `json:"company_name"`
	Stage       string  `json:"stage"`
	Value       float64 `json:"value"`
	SalesRep    string  `json:"sales_rep,omitempty"`
	Territory   string  `json:"territory,omitempty"`
	UpdatedDate string  `json:"updated_date"`
}

func (h *DealHandlers) PreviewBulkReassign(ctx context.Context, _ *mcp.CallToolRequest, input PreviewBulkInput) (*mcp.CallToolResult, PreviewBulkOutput, error) {
	result, err := h.svc.Preview(ctx, input.DealIDs, input.SalesRepName)
	if err != nil {
		return nil, PreviewBulkOutput{}, fmt.Errorf("preview failed: %w", err)
	}

	return nil, PreviewBulkOutput{
		TotalDeals:        result.Summary.TotalDeals,
		TotalValue:        result.Summary.TotalValue.InexactFloat64(),
		AffectedReps:      result.Summary.AffectedReps,
		Changes:           result.Impact.Changes,
		CurrentWorkload:   workloadToOutput(result.CurrentWorkload),
		ProjectedWorkload: workloadToOutput(result.ProjectedWorkload),
		Conflicts:         result.Conflicts,
		Warnings:          result.Warnings,
	}, nil
}

func (h *DealHandlers) BulkReassign(ctx context.Context, _ *mcp.CallToolRequest, input BulkReassignInput) (*mcp.CallToolResult, BulkReassignOutput, error) {
	result, err := h.svc.Execute(ctx, pipeline.ExecuteRequest{
		DealIDs:   input.DealIDs,
		TargetRep: input.SalesRepName,
		Reason:    input.Reason,
		ChangedBy: input.ChangedBy,
	})
	if err != nil {
		return nil, BulkReassignOutput{}, fmt.Errorf("bulk reassignment failed: %w", err)
	}

	return nil, BulkReassignOutput{
		Message:      result.Message,
		BatchID:      result.BatchID,
		UpdatedDeals: result.UpdatedDeals,
		AuditEntries: result.AuditEntries,
		TotalDeals:   result.Summary.TotalDeals,
	}, nil
}

func (h *DealHandlers) ReassignDeal(ctx context.Context, _ *mcp.CallToolRequest, input ReassignDealInput) (*mcp.CallToolResult, DealOutput, error) {
	deal, err := h.svc.ReassignDeal(ctx, pipeline.ReassignRequest{
		DealID:    input.DealID,
		SalesRep:  input.SalesRep,
		Reason:    input.Reason,
		ChangedBy: input.ChangedBy,
	})
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("reassignment failed: %w", err)
	}
	return nil, dealToOutput(deal), nil
}

func (h *DealHandlers) UpdateDealTerritory(ctx context.Context, _ *mcp.CallToolRequest, input UpdateTerritoryInput) (*mcp.CallToolResult, DealOutput, error) {
	deal, err := h.svc.UpdateTerritory(ctx, input.DealID, input.Territory, input.ChangedBy)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("territory update failed: %w", err)
	}
	return nil, dealToOutput(deal), nil
}

func dealToOutput(deal *models.Deal) DealOutput {
	return DealOutput{
		ID:          deal.ID,
		DealID:      deal.DealID,
		CompanyName: deal.CompanyName,
		Stage:       deal.Stage,
		Value:       deal.Value.InexactFloat64(),
		SalesRep:    deal.RepName(),
		Territory:   deal.Territory,
		UpdatedDate: deal.UpdatedDate,
	}
}

func repWorkloadToOutput(a models.WorkloadAggregate) RepWorkloadOutput {
	return RepWorkloadOutput{
		SalesRep:         a.SalesRep,
		DealCount:        a.DealCount,
		TotalValue:       a.TotalValue.InexactFloat64(),
		AvgDealValue:     a.AvgDealValue.InexactFloat64(),
		Territories:      a.Territories,
		DealsByStage:     a.DealsByStage,
		UtilizationLevel: string(a.UtilizationLevel),
		Recommendations:  a.Recommendations,
	}
}

// workloadToOutput lists a snapshot in rep name order.
func workloadToOutput(snapshot map[string]models.WorkloadAggregate) []RepWorkloadOutput {
	out := make([]RepWorkloadOutput, 0, len(snapshot))
	for _, rep := range workload.SortedReps(snapshot) {
		out = append(out, repWorkloadToOutput(snapshot[rep]))
	}
	return out
}
