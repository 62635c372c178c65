package cli

import (
	"os/signal"
	"syscall"

	"mindguard/internal/logger"
	"mindguard/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCommand(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the JSON HTTP API",
		Long:    "Serve chat, mood and session endpoints until interrupted.",
		Example: "  mindguard serve --addr :9090",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			cfg := a.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}
			if a.cfg.Log.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			return server.New(cfg, a.pipeline, logger.With("server")).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
