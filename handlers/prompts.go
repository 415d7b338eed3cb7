// ABOUTME: MCP prompt handlers for reusable workload planning templates
// ABOUTME: Builds rebalance and bulk-move review prompts from live pipeline data
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nehemiah-ic/rv-takehome/pipeline"
	"github.com/nehemiah-ic/rv-takehome/workload"
)

// Prompt names served by GetPrompt.
const (
	RebalancePrompt  = "rebalance-plan"
	ReviewMovePrompt = "review-bulk-move"
)

type PromptHandlers struct {
	svc *pipeline.Service
}

func NewPromptHandlers(svc *pipeline.Service) *PromptHandlers {
	return &PromptHandlers{svc: svc}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case RebalancePrompt:
		return h.getRebalancePrompt(ctx)
	case ReviewMovePrompt:
		return h.getReviewMovePrompt(ctx, request.Params.Arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getRebalancePrompt(ctx context.Context) (*mcp.GetPromptResult, error) {
	report, err := h.svc.WorkloadAnalytics(ctx)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("Here is the current workload of the sales team:\n\n")
	for _, a := range report.RepWorkloads {
		fmt.Fprintf(&b, "- %s: %d deals, %s total, %s (%s)\n",
			a.SalesRep, a.DealCount, workload.FormatCurrency(a.TotalValue),
			a.UtilizationLevel, strings.Join(a.Territories, ", "))
	}

	fmt.Fprintf(&b, "\nTeam: %d deals worth %s across %d reps. %d overloaded, %d underutilized.\n",
		report.Summary.TotalDeals, workload.FormatCurrency(report.Summary.TotalValue),
		report.Summary.TotalReps, report.Summary.OverloadedReps, report.Summary.UnderutilizedReps)

	if len(report.Recommendations) > 0 {
		b.WriteString("\nSystem recommendations:\n")
		for _, r := range report.Recommendations {
			fmt.Fprintf(&b, "- [%s] %s\n", r.Priority, r.Description)
		}
	}

	b.WriteString("\nPlease propose a rebalancing plan:")
	b.WriteString("\n1. Which deals should move and to whom")
	b.WriteString("\n2. Territory coverage to preserve while moving them")
	b.WriteString("\n3. Use preview_bulk_reassign to check each move before running bulk_reassign")

	return &mcp.GetPromptResult{
		Description: "Workload rebalancing plan",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: b.String()},
			},
		},
	}, nil
}

func (h *PromptHandlers) getReviewMovePrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	target := strings.TrimSpace(args["sales_rep_name"])
	if target == "" {
		return nil, fmt.Errorf("sales_rep_name is required")
	}
	ids, err := pipeline.ParseDealIDs(args["deal_ids"])
	if err != nil {
		return nil, fmt.Errorf("deal_ids: %w", err)
	}

	preview, err := h.svc.Preview(ctx, ids, target)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Review this proposed move of %d deals (%s) to %s:\n\n",
		preview.Summary.TotalDeals, workload.FormatCurrency(preview.Summary.TotalValue), target)
	for _, c := range preview.Impact.Changes {
		fmt.Fprintf(&b, "- %s: %s -> %s\n", c.DealID, c.From, c.To)
	}

	if len(preview.Conflicts) > 0 {
		b.WriteString("\nConflicts:\n")
		for _, c := range preview.Conflicts {
			fmt.Fprintf(&b, "- [%s] %s\n", c.Severity, c.Message)
		}
	}
	if len(preview.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range preview.Warnings {
			fmt.Fprintf(&b, "- %s\n", w.Message)
		}
	}

	b.WriteString("\nShould this move go ahead? Suggest a better split if it overloads anyone.")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Review bulk move to %s", target),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: b.String()},
			},
		},
	}, nil
}
