// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for Claude Desktop integration
package cli

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nehemiah-ic/rv-takehome/handlers"
	"github.com/nehemiah-ic/rv-takehome/pipeline"
)

const mcpVersion = "0.1.0"

// NewMCPServer registers every pipeline tool, resource and prompt.
func NewMCPServer(svc *pipeline.Service) *mcp.Server {
	dealHandlers := handlers.NewDealHandlers(svc)
	queryHandlers := handlers.NewQueryHandlers(svc)
	resourceHandlers := handlers.NewResourceHandlers(svc)
	promptHandlers := handlers.NewPromptHandlers(svc)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "rv-pipeline",
		Version: mcpVersion,
	}, nil)

	// Tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "preview_bulk_reassign",
		Description: "Preview moving several deals to one sales rep: impact, before/after workload, conflicts and warnings. Changes nothing.",
	}, dealHandlers.PreviewBulkReassign)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bulk_reassign",
		Description: "Move several deals to one sales rep and record an audit entry per changed deal, correlated by a batch id",
	}, dealHandlers.BulkReassign)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reassign_deal",
		Description: "Move a single deal to another sales rep",
	}, dealHandlers.ReassignDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_deal_territory",
		Description: "Change the sales territory of a single deal",
	}, dealHandlers.UpdateDealTerritory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "workload_analytics",
		Description: "Per-rep workload, utilization levels and team recommendations",
	}, queryHandlers.WorkloadAnalytics)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "territory_analytics",
		Description: "Deal counts, values and reps grouped by territory",
	}, queryHandlers.TerritoryAnalytics)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "audit_trail",
		Description: "Recent deal changes, newest first, optionally for one deal",
	}, queryHandlers.AuditTrail)

	// Resources
	for _, r := range []struct{ uri, name, description string }{
		{handlers.WorkloadURI, "workload", "Team workload report"},
		{handlers.TerritoriesURI, "territories", "Territory breakdown"},
		{handlers.AuditTrailURI, "audit-trail", "Most recent audit entries"},
		{handlers.SalesRepsURI, "sales-reps", "Active sales rep names"},
	} {
		server.AddResource(&mcp.Resource{
			URI:         r.uri,
			Name:        r.name,
			Description: r.description,
			MIMEType:    "application/json",
		}, resourceHandlers.ReadResource)
	}

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: handlers.DealURITemplate,
		Name:        "deal",
		Description: "One deal with its audit history",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	// Prompts
	server.AddPrompt(&mcp.Prompt{
		Name:        handlers.RebalancePrompt,
		Description: "Propose a workload rebalancing plan from current utilization",
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        handlers.ReviewMovePrompt,
		Description: "Review a proposed bulk move before running it",
		Arguments: []*mcp.PromptArgument{
			{Name: "deal_ids", Description: "Comma separated numeric deal ids", Required: true},
			{Name: "sales_rep_name", Description: "Receiving sales rep", Required: true},
		},
	}, promptHandlers.GetPrompt)

	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(ctx context.Context, app *App) error {
	app.Logger.Info("starting MCP server", "transport", "stdio")
	return NewMCPServer(app.Service).Run(ctx, &mcp.StdioTransport{})
}
