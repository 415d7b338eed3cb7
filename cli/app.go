// ABOUTME: Shared wiring for CLI subcommands
// ABOUTME: Bundles config, logger, repository and pipeline service
package cli

import (
	"flag"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/nehemiah-ic/rv-takehome/config"
	"github.com/nehemiah-ic/rv-takehome/db"
	"github.com/nehemiah-ic/rv-takehome/pipeline"
)

// App is what every subcommand runs against.
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Repo    *db.Repository
	Service *pipeline.Service
	Out     io.Writer
}

// NewApp wires a repository and service over handle.
func NewApp(cfg *config.Config, logger *log.Logger, handle *db.Handle) *App {
	repo := db.NewRepository(handle)
	return &App{
		Config:  cfg,
		Logger:  logger,
		Repo:    repo,
		Service: pipeline.NewService(repo, cfg.Thresholds, logger),
		Out:     os.Stdout,
	}
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Out)
	return fs
}
