package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowglyph/pkg/observability"
	"github.com/matzehuels/flowglyph/pkg/server"
	"github.com/matzehuels/flowglyph/pkg/store"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noStore   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes positioning, validation and the sequence store over HTTP.
The listen address defaults to server.addr from the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config()
			if addr == "" {
				addr = cfg.Server.Addr
			}

			if !noMetrics {
				m, err := observability.NewMetrics(nil)
				if err != nil {
					return err
				}
				observability.SetPositioningHooks(m)
				observability.SetCacheHooks(m)
				observability.SetHTTPHooks(m)
				defer observability.Reset()
			}

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			var st store.Store
			if !noStore {
				st, err = cfg.OpenStore(ctx)
				if err != nil {
					return err
				}
				defer st.Close(ctx)
			}

			srv := server.New(runner, st, c.Logger, server.Options{
				MaxBodyBytes:   cfg.Server.MaxBodyBytes,
				RequestTimeout: cfg.Server.RequestTimeout,
			})
			c.Logger.Info("starting server", "cache", cfg.Cache.Backend, "store", storeName(st, cfg.Store.Backend))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "disable the sequence storage endpoints")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not record OpenTelemetry metrics")

	return cmd
}

func storeName(st store.Store, backend string) string {
	if st == nil {
		return "none"
	}
	return backend
}
