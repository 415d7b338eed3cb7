// ABOUTME: Upgrade utility for pipeline databases created before territories were tracked
// ABOUTME: Backs up the file, brings the schema current and backfills deal territories

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nehemiah-ic/rv-takehome/db"
	"github.com/nehemiah-ic/rv-takehome/pipeline"
	"github.com/nehemiah-ic/rv-takehome/workload"
)

func main() {
	dbPath := flag.String("db", "", "Path to database file (required)")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Create backup before migration")
	includeOther := flag.Bool("include-other", false, "Also assign \"Other\" to deals whose origin city has no mapping")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "migrate"})

	if *dbPath == "" {
		logger.Fatal("-db flag is required")
	}

	if err := migrate(context.Background(), logger, *dbPath, *dryRun, *backup, *includeOther); err != nil {
		logger.Fatal("migration failed", "err", err)
	}

	logger.Info("migration completed successfully")
}

func migrate(ctx context.Context, logger *log.Logger, dbPath string, dryRun, createBackup, includeOther bool) error {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("database file does not exist: %s", dbPath)
	}

	if createBackup && !dryRun {
		backupPath := fmt.Sprintf("%s.backup.%s", dbPath, time.Now().Format("20060102-150405"))
		logger.Info("creating backup", "path", backupPath)

		input, err := os.ReadFile(dbPath)
		if err != nil {
			return fmt.Errorf("failed to read database: %w", err)
		}

		if err := os.WriteFile(backupPath, input, 0644); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	// Opening runs the idempotent schema, which adds any missing tables
	handle := db.NewHandle(dbPath)
	defer func() { _ = handle.Close() }()

	svc := pipeline.NewService(db.NewRepository(handle), workload.DefaultThresholds(), logger)

	assign := db.AssignTerritory
	if !includeOther {
		assign = func(city string) string {
			if t := db.AssignTerritory(city); t != db.TerritoryOther {
				return t
			}
			return ""
		}
	}

	result, err := svc.BackfillTerritories(ctx, pipeline.BackfillRequest{
		Assign:    assign,
		ChangedBy: "rv migrate",
		DryRun:    dryRun,
	})
	if err != nil {
		return err
	}

	for _, c := range result.Changes {
		fmt.Printf("%s  %s -> %s\n", c.DealID, c.OriginCity, c.Territory)
	}

	if dryRun {
		fmt.Printf("\nDRY RUN - would assign territories to %d of %d deals\n", len(result.Changes), result.Scanned)
		return nil
	}
	fmt.Printf("\nAssigned territories to %d of %d deals\n", len(result.Changes), result.Scanned)
	return nil
}
