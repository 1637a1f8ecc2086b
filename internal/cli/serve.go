package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netgraph/internal/metrics"
	"github.com/matzehuels/netgraph/internal/server"
	"github.com/matzehuels/netgraph/pkg/config"
	"github.com/matzehuels/netgraph/pkg/pipeline"
)

type serveFlags struct {
	addr     string
	origins  []string
	maxViews int
	noCache  bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API with live views and metrics",
		Long: `Serve the netgraph HTTP API.

Endpoints:
  GET  /health                       liveness and build info
  GET  /metrics                      Prometheus metrics
  GET  /api/v1/presets               built-in architectures
  *    /api/v1/architectures         saved architectures
  *    /api/v1/views                 live views (mount, zoom, resize, unmount)
  GET  /api/v1/render.{format}       one-shot rendering

The architecture store and the artifact cache follow the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			if changed("addr") {
				c.config.Server.Addr = flags.addr
			}
			if changed("allowed-origin") {
				c.config.Server.AllowedOrigins = flags.origins
			}
			if changed("max-views") {
				c.config.Server.MaxViews = flags.maxViews
			}
			return c.runServe(cmd.Context(), flags.noCache)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.addr, "addr", server.DefaultAddr, "listen address")
	f.StringSliceVar(&flags.origins, "allowed-origin", nil, "CORS origin (repeatable, default *)")
	f.IntVar(&flags.maxViews, "max-views", 0, "maximum live views (0 is unlimited)")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	logger := loggerFromContext(ctx)

	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cc, nil, logger)
	defer runner.Close()

	st, err := c.config.Store.OpenStore(ctx, cc)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Warn("close store", "error", err)
		}
	}()

	reg := metrics.NewRegistry()
	reg.Install()

	srv := server.New(server.Config{
		Addr:           c.config.Server.Addr,
		Runner:         runner,
		Store:          st,
		Metrics:        reg,
		Logger:         logger,
		AllowedOrigins: c.config.Server.AllowedOrigins,
		Width:          c.config.Render.Width,
		Height:         c.config.Render.Height,
		Style:          c.config.Render.Style,
		MaxNodes:       c.config.Render.MaxNodes,
		MaxViews:       c.config.Server.MaxViews,
	})

	printInfo("Listening on %s", StyleValue.Render(c.config.Server.Addr))
	printDetail("cache %s · store %s", c.config.Cache.Backend, c.config.Store.Backend)
	if c.config.Store.Backend == config.StoreMemory {
		printWarning("saved architectures live in memory and are lost on exit")
	}
	return srv.ListenAndServe(ctx)
}
