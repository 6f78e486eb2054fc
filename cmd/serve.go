package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"youbuddy/internal/api"
	"youbuddy/internal/config"
	"youbuddy/internal/mcptools"
	"youbuddy/internal/metrics"
	"youbuddy/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the MCP tool server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			slog.Info("received signal, shutting down", "signal", s.String())
			cancel()
		}()

		m := metrics.New()
		svc, cleanup := buildService(ctx, cfg, m)
		defer cleanup()

		mcpServer := mcptools.NewServer(svc, version)
		engine := api.NewServer(api.NewHandler(svc), m, mcptools.Handler(mcpServer))

		sc := api.ServerConfig{
			Host:            cfg.Server.Addr,
			Port:            cfg.Server.Port,
			ReadTimeout:     config.Duration(cfg.Server.ReadTimeout),
			WriteTimeout:    config.Duration(cfg.Server.WriteTimeout),
			IdleTimeout:     api.DefaultServerConfig().IdleTimeout,
			ShutdownTimeout: config.Duration(cfg.Server.ShutdownTimeout),
		}
		httpWorker := &worker.HTTPServer{
			Addr:            sc.Addr(),
			Handler:         engine,
			ReadTimeout:     sc.ReadTimeout,
			WriteTimeout:    sc.WriteTimeout,
			IdleTimeout:     sc.IdleTimeout,
			ShutdownTimeout: sc.ShutdownTimeout,
		}
		slog.Info("starting youbuddy", "addr", sc.Addr(), "version", version)
		return worker.NewManager(httpWorker).Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
