package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/tandem/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the coordinator API (events, snapshot, SSE stream, graph), the catalogs
under /catalogs and Prometheus metrics under /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")
		addr, _ := cmd.Flags().GetString("addr")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return cli.Serve(ctx, cli.ServeOptions{
			ConfigPath:  configPath,
			Addr:        addr,
			MetricsAddr: metricsAddr,
			Debug:       debug,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().String("metrics-addr", "", "Serve /metrics on a separate address")
}
