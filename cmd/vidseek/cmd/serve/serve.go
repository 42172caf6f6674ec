package serve

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vidseek/cmd/vidseek/cmd/common"
	"vidseek/internal/app"
)

var host string
var port string

func init() {
	Cmd.Flags().StringVar(&host, "host", "", "listen host (overrides config)")
	Cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides config)")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API

- POST /api/v1/videos/{videoId}/search answers a query
- /metrics exposes Prometheus metrics
- Expired cache entries are swept in the background`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := common.Load()
		if err != nil {
			return err
		}
		defer rt.Logger.Sync()

		if host != "" {
			rt.Config.Server.Host = host
		}
		if port != "" {
			rt.Config.Server.Port = port
		}

		ctx := cmd.Context()
		api, cleanup, err := app.InitializeAPI(ctx, rt.Config, rt.Keys, rt.Logger, rt.Metrics)
		if err != nil {
			return err
		}
		defer cleanup()

		api.Service.StartSweeper(ctx, rt.Config.Cache.SweepInterval())

		srv := api.Server

		if err := srv.Start(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", rt.Config.Server.Address())

		select {
		case <-ctx.Done():
		case err := <-srv.Errors():
			if err != nil {
				rt.Logger.Error("Server stopped", zap.Error(err))
				return err
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
