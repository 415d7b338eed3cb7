// ABOUTME: Entry point for the RV pipeline workload service and CLI
// ABOUTME: Routes to the HTTP API, MCP server, console or CLI commands based on arguments
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/nehemiah-ic/rv-takehome/cli"
	"github.com/nehemiah-ic/rv-takehome/config"
	"github.com/nehemiah-ic/rv-takehome/db"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/rv-pipeline/pipeline.db)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("rv version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	// Logs go to stderr so the MCP stdio transport stays clean
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "rv"})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	logger.SetLevel(cfg.LogLevel)
	if *logLevel != "" {
		level, err := log.ParseLevel(*logLevel)
		if err != nil {
			logger.Fatal("invalid log level", "level", *logLevel)
		}
		logger.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handle := db.NewHandle(cfg.DBPath)
	defer func() {
		if err := handle.Close(); err != nil {
			logger.Error("failed to close database", "err", err)
		}
	}()
	logger.Debug("using database", "path", cfg.DBPath)

	app := cli.NewApp(cfg, logger, handle)

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "serve":
		err = cli.ServeCommand(ctx, app, commandArgs)
	case "mcp":
		err = cli.MCPCommand(ctx, app)
	case "tui":
		err = cli.TUICommand(ctx, app)
	case "seed":
		err = cli.SeedCommand(ctx, app)
	case "workload":
		err = cli.WorkloadCommand(ctx, app, commandArgs)
	case "preview-bulk":
		err = cli.PreviewBulkCommand(ctx, app, commandArgs)
	case "bulk-reassign":
		err = cli.BulkReassignCommand(ctx, app, commandArgs)
	case "reassign":
		err = cli.ReassignDealCommand(ctx, app, commandArgs)
	case "set-territory":
		err = cli.SetTerritoryCommand(ctx, app, commandArgs)
	case "audit-trail":
		err = cli.AuditTrailCommand(ctx, app, commandArgs)
	case "reps":
		err = cli.ListRepsCommand(ctx, app, commandArgs)
	case "territories":
		err = cli.TerritoriesCommand(app)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error(command+" failed", "err", err)
		stop()
		_ = handle.Close()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`rv v%s - sales pipeline workload and bulk reassignment

USAGE:
  rv [global flags] <command> [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/rv-pipeline/pipeline.db)
  --log-level <level>    debug, info, warn or error (default: info)

SERVERS:
  rv serve               Run the dashboard JSON API
    --port <n>             Port (default: 8080, or RV_PORT)
    --cors <origins>       Comma separated allowed origins
  rv mcp                 Start MCP server on stdio (for Claude Desktop)
  rv tui                 Interactive bulk reassignment console

DATA:
  rv seed                Replace reps and deals with the sample data set

REPORTS:
  rv workload            Team workload dashboard
    --territories          Also show the territory breakdown
  rv audit-trail         Recent deal changes, newest first
    --deal <id>            Only changes to one deal
    --limit <n>            Max entries (default: 50)
  rv reps                Sales rep roster
    --all                  Include inactive reps
  rv territories         Assignable territories

REASSIGNMENT:
  rv preview-bulk        Preview a bulk move without changing anything
    --deals <ids>          Comma separated deal ids (required)
    --to <name>            Receiving sales rep (required)

  rv bulk-reassign       Move deals and record audit entries
    --deals <ids>          Comma separated deal ids (required)
    --to <name>            Receiving sales rep (required)
    --reason <text>        Reason for the audit trail (required)
    --by <name>            Who is making the change (default: System User)
    --force                Proceed even when the preview reports conflicts

  rv reassign            Move one deal
    --deal <id>            Deal id (required)
    --to <name>            New sales rep (required)
    --reason <text>        Reason for the audit trail

  rv set-territory       Change the territory of one deal
    --deal <id>            Deal id (required)
    --territory <name>     One of the assignable territories (required)

ENVIRONMENT:
  RV_DB_PATH, RV_PORT, RV_CORS_ORIGINS, RV_LOG_LEVEL and the RV_* workload
  thresholds. A .env file in the working directory is read first.

EXAMPLES:
  # Load sample data and look at the team
  rv seed
  rv workload

  # See what moving two deals to Sarah would do, then do it
  rv preview-bulk --deals 1,2 --to "Sarah Johnson"
  rv bulk-reassign --deals 1,2 --to "Sarah Johnson" --reason "Q4 rebalance"

`, version)
}
