package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dockspace/internal/server"
	"github.com/matzehuels/dockspace/pkg/buildinfo"
	"github.com/matzehuels/dockspace/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored layouts over HTTP",
		Long: `Serve stored layouts over HTTP.

Routes:
  GET    /healthz
  GET    /layouts
  GET    /layouts/{name}
  PUT    /layouts/{name}
  DELETE /layouts/{name}
  GET    /layouts/{name}/stats
  GET    /layouts/{name}/dot
  POST   /validate

Stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			observability.SetStoreHooks(storeLogHooks{logger: c.Logger})
			defer observability.Reset()

			s, err := c.openStoreWith(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			if !buildinfo.IsRelease() {
				c.Logger.Debug("running a development build")
			}
			c.Logger.Info("starting server", "backend", cfg.Store.Backend, "version", buildinfo.Version)
			return server.New(s, c.Logger).ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
