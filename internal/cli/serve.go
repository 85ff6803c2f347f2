package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pdext/internal/server"
	"github.com/matzehuels/pdext/pkg/observability"
)

// serveCommand creates the "serve" command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve charts and geometry over HTTP until interrupted.

  GET  /healthz
  GET  /v1/charts
  GET  /v1/stats
  POST /v1/render/{chart}?format=svg   {"csv": "...", "options": {...}}
  POST /v1/geometry/{shape}?radius=r   CSV body`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") && c.Config.Server.Addr != "" {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			counters := &observability.Counters{}
			hooks := observability.Multi{observability.NewLogHooks(c.Logger), counters}
			observability.SetRenderHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			srv := server.New(runner, c.Logger,
				server.WithCounters(counters),
				server.WithMaxBodyBytes(c.Config.Server.MaxBodyBytes))

			printInfo(cmd.OutOrStdout(), "Serving on %s", StyleHighlight.Render(addr))
			printKeyValue(cmd.OutOrStdout(), "cache", c.cacheLocation())
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
