package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sidereal/pkg/observability"
	"github.com/matzehuels/sidereal/pkg/server"
)

// serveCommand creates the serve command, which exposes the configured
// ephemeris provider over HTTP. A remote-mode client elsewhere can then use
// this process as its ephemeris.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ephemeris over HTTP",
		Example: `  sidereal serve --addr :8080
  curl 'localhost:8080/v1/bodies/moon?jd=2451545&sidereal=true'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, closeProvider, err := c.newProvider(ctx)
			if err != nil {
				return err
			}
			defer closeProvider()

			cfg := server.Config{
				Addr:         pick(cmd, "addr", addr, c.Config.Server.Addr),
				ReadTimeout:  c.Config.Server.ReadTimeout.Duration,
				WriteTimeout: c.Config.Server.WriteTimeout.Duration,
			}
			if c.Config.Server.Metrics && !noMetrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				observability.NewPrometheus(reg).Install()
				defer observability.Reset()
				cfg.Gatherer = reg
			}

			return server.New(cfg, p, c.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	return cmd
}
