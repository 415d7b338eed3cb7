// ABOUTME: Read-only report CLI commands and database seeding
// ABOUTME: Workload dashboard, audit trail, rep roster and sample data
package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/nehemiah-ic/rv-takehome/models"
	"github.com/nehemiah-ic/rv-takehome/viz"
)

// WorkloadCommand prints the team workload dashboard.
func WorkloadCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flagSet("workload")
	territories := fs.Bool("territories", false, "Also show the territory breakdown")
	if err := fs.Parse(args); err != nil {
		return err
	}

	report, err := app.Service.WorkloadAnalytics(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate workload report: %w", err)
	}
	fmt.Fprint(app.Out, viz.RenderWorkload(report))

	if *territories {
		stats, _, err := app.Service.TerritoryAnalytics(ctx)
		if err != nil {
			return fmt.Errorf("failed to generate territory report: %w", err)
		}
		fmt.Fprintln(app.Out)
		fmt.Fprint(app.Out, viz.RenderTerritories(stats))
	}
	return nil
}

// AuditTrailCommand prints recent deal changes.
func AuditTrailCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flagSet("audit-trail")
	dealID := fs.Int64("deal", 0, "Only changes to this deal id")
	limit := fs.Int("limit", 50, "Max entries")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var filter *int64
	if *dealID > 0 {
		filter = dealID
	}

	logs, err := app.Service.AuditTrail(ctx, filter, *limit)
	if err != nil {
		return err
	}

	fmt.Fprint(app.Out, viz.RenderAuditTrail(logs))
	return nil
}

// ListRepsCommand lists the sales rep roster.
func ListRepsCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flagSet("reps")
	all := fs.Bool("all", false, "Include inactive reps")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reps, err := app.Repo.ListSalesReps(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sales reps: %w", err)
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTERRITORY\tEMAIL")
	shown := 0
	for _, rep := range reps {
		if !rep.Active && !*all {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", rep.Name, orDash(rep.Territory), orDash(rep.Email))
		shown++
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "\n%d sales reps\n", shown)
	return nil
}

// TerritoriesCommand lists the territories deals can be assigned to.
func TerritoriesCommand(app *App) error {
	for _, t := range models.Territories {
		fmt.Fprintln(app.Out, t)
	}
	return nil
}

// SeedCommand replaces reps and deals with the sample data set.
func SeedCommand(ctx context.Context, app *App) error {
	result, err := app.Repo.Seed(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	app.Logger.Info("database seeded", "deals", result.Deals, "sales_reps", result.SalesReps)
	fmt.Fprintf(app.Out, "✓ Seeded %d deals and %d sales reps\n", result.Deals, result.SalesReps)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
