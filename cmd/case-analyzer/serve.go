// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/case-analyzer/internal/analysis"
	"github.com/pdiddy/case-analyzer/internal/server"
	"github.com/pdiddy/case-analyzer/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web interface",
	Long: `Serve starts the web interface: document upload and manual entry, a
progress page while the model works, and the comparison report. Each browser
keeps its own session. Metrics are exposed at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := telemetry.SetupTracing(cfg.Telemetry.Tracing, os.Stderr)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdownTracing(cmd.Context()); err != nil {
				logger.Warn("flushing traces", zap.Error(err))
			}
		}()

		provider, err := analysis.NewProvider(ctx, cfg.AI)
		if err != nil {
			return fmt.Errorf("configuring provider: %w", err)
		}
		metrics := telemetry.NewMetrics()
		srv, err := server.New(server.Options{
			Config:   cfg.Server,
			Analyzer: &analysis.Analyzer{Provider: provider, Logger: logger, Metrics: metrics},
			Logger:   logger,
			Metrics:  metrics,
		})
		if err != nil {
			return err
		}

		logger.Info("starting server",
			zap.String("provider", string(cfg.AI.Provider)),
			zap.String("addr", cfg.Server.Addr))
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().Int("analyses-per-minute", 0, "limit on submissions across all sessions (0 disables)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.analyses_per_minute", serveCmd.Flags().Lookup("analyses-per-minute"))

	rootCmd.AddCommand(serveCmd)
}
