// ABOUTME: MCP resource handlers exposing pipeline dashboards
// ABOUTME: Read-only JSON views addressed by pipeline:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/nehemiah-ic/rv-takehome/pipeline"
)

const resourceScheme = "pipeline://"

// Resource URIs served by ReadResource.
const (
	WorkloadURI     = resourceScheme + "workload"
	TerritoriesURI  = resourceScheme + "territories"
	AuditTrailURI   = resourceScheme + "audit-trail"
	SalesRepsURI    = resourceScheme + "sales-reps"
	DealURITemplate = resourceScheme + "deals/{id}"
)

type ResourceHandlers struct {
	svc *pipeline.Service
}

func NewResourceHandlers(svc *pipeline.Service) *ResourceHandlers {
	return &ResourceHandlers{svc: svc}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")

	switch parts[0] {
	case "workload":
		report, err := h.svc.WorkloadAnalytics(ctx)
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, report)

	case "territories":
		stats, total, err := h.svc.TerritoryAnalytics(ctx)
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, map[string]any{"territories": stats, "totalDeals": total})

	case "audit-trail":
		logs, err := h.svc.AuditTrail(ctx, nil, pipeline.DefaultAuditLimit)
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, logs)

	case "sales-reps":
		names, err := h.svc.SalesRepNames(ctx)
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, names)

	case "deals":
		if len(parts) != 2 {
			return nil, fmt.Errorf("deal resource requires an id: %s", uri)
		}
		return h.readDeal(ctx, uri, parts[1])

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

// readDeal returns a deal together with its audit history.
func (h *ResourceHandlers) readDeal(ctx context.Context, uri, idStr string) (*mcp.ReadResourceResult, error) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid deal ID: %w", err)
	}

	deal, err := h.svc.Deal(ctx, id)
	if err != nil {
		return nil, err
	}

	history, err := h.svc.AuditTrail(ctx, &id, pipeline.DefaultAuditLimit)
	if err != nil {
		return nil, err
	}

	return jsonResource(uri, struct {
		models.Deal
		History []models.AuditLog `json:"history"`
	}{
		Deal:    *deal,
		History: history,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
