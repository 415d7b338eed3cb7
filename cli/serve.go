// ABOUTME: HTTP API subcommand and the interactive console
// ABOUTME: serve runs the dashboard JSON API, tui opens the bulk reassignment console
package cli

import (
	"context"
	"strings"

	"github.com/nehemiah-ic/rv-takehome/tui"
	"github.com/nehemiah-ic/rv-takehome/web"
)

// ServeCommand runs the JSON API until ctx is cancelled.
func ServeCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flagSet("serve")
	port := fs.Int("port", app.Config.Port, "Port to listen on")
	cors := fs.String("cors", strings.Join(app.Config.CORSOrigins, ","), "Comma separated allowed origins")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var origins []string
	for _, o := range strings.Split(*cors, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	server := web.NewServer(app.Service, app.Repo, app.Logger, origins)
	return server.Start(ctx, *port)
}

// TUICommand opens the full-screen bulk reassignment console.
func TUICommand(ctx context.Context, app *App) error {
	return tui.Run(ctx, app.Service)
}
