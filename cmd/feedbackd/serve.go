package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/feedback/internal/config"
	"github.com/vango-dev/feedback/pkg/feedback"
	"github.com/vango-dev/feedback/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the feedback relay server",
		Long: `Run the HTTP/WebSocket relay server.

Clients create and dismiss feedback items over REST and subscribe to
lifecycle events over WebSocket at /ws. Prometheus metrics are served
at /metrics.

Examples:
  feedbackd serve
  feedbackd serve --addr=:9000
  feedbackd serve --config=./feedbackd.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides config)")

	return cmd
}

func runServe(configPath, addr string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	mgr := feedback.NewManager(cfg.FeedbackConfig(),
		feedback.WithLogger(logger),
		feedback.WithMetrics(feedback.NewMetrics()),
	)
	defer mgr.Close()

	srvCfg := cfg.ServerConfig()
	srv := server.New(mgr, &srvCfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
