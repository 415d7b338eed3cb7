// ABOUTME: Deal reassignment CLI commands
// ABOUTME: Bulk preview and execute plus single-deal rep and territory edits
package cli

import (
	"context"
	"fmt"

	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/nehemiah-ic/rv-takehome/pipeline"
	"github.com/nehemiah-ic/rv-takehome/viz"
)

// PreviewBulkCommand shows what moving deals to a rep would do.
func PreviewBulkCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flagSet("preview-bulk")
	deals := fs.String("deals", "", "Comma separated deal ids (required)")
	to := fs.String("to", "", "Receiving sales rep name (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *deals == "" {
		return fmt.Errorf("--deals is required")
	}
	if *to == "" {
		return fmt.Errorf("--to is required")
	}
	ids, err := pipeline.ParseDealIDs(*deals)
	if err != nil {
		return err
	}

	result, err := app.Service.Preview(ctx, ids, *to)
	if err != nil {
		return err
	}

	fmt.Fprint(app.Out, viz.RenderPreview(result))
	return nil
}

// BulkReassignCommand moves deals to a rep. A preview runs first and the
// move is refused when it reports conflicts, unless --force is given.
func BulkReassignCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flagSet("bulk-reassign")
	deals := fs.String("deals", "", "Comma separated deal ids (required)")
	to := fs.String("to", "", "Receiving sales rep name (required)")
	reason := fs.String("reason", "", "Reason recorded in the audit trail (required)")
	by := fs.String("by", models.DefaultChangedBy, "Who is making the change")
	force := fs.Bool("force", false, "Proceed even when the preview reports conflicts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *deals == "" {
		return fmt.Errorf("--deals is required")
	}
	if *to == "" {
		return fmt.Errorf("--to is required")
	}
	if *reason == "" {
		return fmt.Errorf("--reason is required")
	}
	ids, err := pipeline.ParseDealIDs(*deals)
	if err != nil {
		return err
	}

	preview, err := app.Service.Preview(ctx, ids, *to)
	if err != nil {
		return err
	}
	if len(preview.Conflicts) > 0 && !*force {
		fmt.Fprint(app.Out, viz.RenderPreview(preview))
		return fmt.Errorf("preview reports %d conflicts; rerun with --force to proceed", len(preview.Conflicts))
	}

	result, err := app.Service.Execute(ctx, pipeline.ExecuteRequest{
		DealIDs:   ids,
		TargetRep: *to,
		Reason:    *reason,
		ChangedBy: *by,
	})
	if err != nil {
		return err
	}

	fmt.Fprint(app.Out, viz.RenderExecution(result))
	return nil
}

// ReassignDealCommand moves one deal to another rep.
func ReassignDealCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flagSet("reassign")
	dealID := fs.Int64("deal", 0, "Deal id (required)")
	to := fs.String("to", "", "New sales rep name (required)")
	reason := fs.String("reason", "", "Reason recorded in the audit trail")
	by := fs.String("by", models.DefaultChangedBy, "Who is making the change")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *dealID <= 0 {
		return fmt.Errorf("--deal is required")
	}
	if *to == "" {
		return fmt.Errorf("--to is required")
	}

	deal, err := app.Service.ReassignDeal(ctx, pipeline.ReassignRequest{
		DealID:    *dealID,
		SalesRep:  *to,
		Reason:    *reason,
		ChangedBy: *by,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "✓ %s (%s) now with %s\n", deal.DealID, deal.CompanyName, deal.RepName())
	return nil
}

// SetTerritoryCommand changes the territory of one deal.
func SetTerritoryCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flagSet("set-territory")
	dealID := fs.Int64("deal", 0, "Deal id (required)")
	territory := fs.String("territory", "", "New territory (required)")
	by := fs.String("by", models.DefaultChangedBy, "Who is making the change")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *dealID <= 0 {
		return fmt.Errorf("--deal is required")
	}
	if *territory == "" {
		return fmt.Errorf("--territory is required")
	}

	deal, err := app.Service.UpdateTerritory(ctx, *dealID, *territory, *by)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "✓ %s (%s) now in %s\n", deal.DealID, deal.CompanyName, deal.Territory)
	return nil
}
