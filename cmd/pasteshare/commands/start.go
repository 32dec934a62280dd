package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pasteshare/pasteshare/internal/janitor"
	"github.com/pasteshare/pasteshare/internal/logger"
	"github.com/pasteshare/pasteshare/internal/telemetry"
	"github.com/pasteshare/pasteshare/pkg/config"
	"github.com/pasteshare/pasteshare/pkg/metrics"
	"github.com/pasteshare/pasteshare/pkg/pastestore/api"
	"github.com/pasteshare/pasteshare/pkg/pastestore/store"
	"github.com/pasteshare/pasteshare/pkg/upload"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the PasteShare server",
	Long: `Start the PasteShare HTTP server with the specified configuration.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/pasteshare/config.yaml.

Examples:
  # Start with default config location
  pasteshare start

  # Start with custom config file
  pasteshare start --config /etc/pasteshare/config.yaml

  # Start with environment variable overrides
  PASTESHARE_LOGGING_LEVEL=DEBUG pasteshare start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Initialize the structured logger
	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry (if enabled)
	telemetryCfg := telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "pasteshare",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	} else {
		logger.Info("Telemetry disabled")
	}

	// Initialize metrics before creating anything that records them
	var m *metrics.PasteMetrics
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		m = metrics.NewPasteMetrics()
		logger.Info("Metrics enabled", "path", "/metrics")
	} else {
		logger.Info("Metrics collection disabled")
	}

	// Initialize the paste store
	pasteStore, err := store.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize paste store: %w", err)
	}
	defer func() {
		if err := pasteStore.Close(); err != nil {
			logger.Error("store close error", "error", err)
		}
	}()
	logger.Info("Paste store initialized", "type", cfg.Database.Type)

	// Initialize attachment storage
	uploads, err := upload.New(ctx, &cfg.Uploads)
	if err != nil {
		return fmt.Errorf("failed to initialize upload storage: %w", err)
	}
	logger.Info("Upload storage initialized", "backend", cfg.Uploads.Backend)

	// Start the expired paste janitor in the background
	sweeper := janitor.New(pasteStore, uploads, m, cfg.Janitor.Interval)
	go sweeper.Run(ctx)

	// Create the API server
	apiServer := api.NewServer(cfg.Server, pasteStore, uploads, m)
	logger.Info("API server configured", "port", cfg.Server.Port)

	// Start server in background
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- apiServer.Start(ctx)
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")
		cancel()

		if err := <-serverDone; err != nil {
			logger.Error("Server shutdown error", "error", err)
			return err
		}
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("Server error", "error", err)
			return err
		}
		logger.Info("Server stopped")
	}

	return nil
}
