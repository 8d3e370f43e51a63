package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/helixml/textstat"
	"github.com/helixml/textstat/infrastructure/api"
	apimiddleware "github.com/helixml/textstat/infrastructure/api/middleware"
	"github.com/helixml/textstat/internal/config"
	"github.com/helixml/textstat/internal/log"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		envFile    string
		configFile string
		host       string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. YAML config file (if --config specified)
  5. Command line flags

Environment variables:
  HOST                         Server host to bind to (default: 0.0.0.0)
  PORT                         Server port to listen on (default: 8080)
  DATA_DIR                     Data directory (default: ~/.textstat)
  DB_URL                       Database URL (default: sqlite:///{data_dir}/textstat.db)
  DB_AUTO_MIGRATE              Migrate the history schema on startup (default: true)
  LOG_LEVEL                    Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                   Log format: pretty, json (default: pretty)
  API_KEYS                     Comma-separated list of valid API keys
  CONCURRENCY                  Concurrent counting operations (default: 4)

  OPERATIONS_RETENTION_SECONDS       Seconds settled operations stay listable (default: 3600)
  OPERATIONS_SWEEP_INTERVAL_SECONDS  Seconds between registry sweeps (default: 60)

  HISTORY_ENABLED                    Archive settled operations (default: true)
  HISTORY_RETENTION_SECONDS          Seconds archived records are kept (default: 604800)
  HISTORY_SWEEP_INTERVAL_SECONDS     Seconds between history prunes (default: 3600)

  REPORTING_LOG_TIME_INTERVAL        Seconds between progress log lines (default: 5)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, configFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&configFile, "config", "", "Path to YAML config file")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, configFile, host string, port int) error {
	cfg, err := loadConfig(envFile, configFile)
	if err != nil {
		return err
	}

	// Apply command line overrides (flags take precedence over env vars)
	cfg = applyServeOverrides(cfg, host, port)

	addr := cfg.Addr()

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger := log.NewLogger(cfg)
	slogger := logger.Slog()

	opts := append(clientOptions(cfg), textstat.WithLogger(slogger))

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	slogger.LogAttrs(context.Background(), slog.LevelInfo, "starting textstat", attrs...)

	client, err := textstat.New(opts...)
	if err != nil {
		return fmt.Errorf("create textstat client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close textstat client", slog.Any("error", err))
		}
	}()

	// Create API server with the client's services
	apiServer := api.NewAPIServer(client, cfg.APIKeys())
	router := apiServer.Router()

	// Apply custom middleware (MUST be done before MountRoutes)
	router.Use(apimiddleware.Logging(slogger))
	router.Use(apimiddleware.CorrelationID)

	// Mount API routes after middleware is configured
	apiServer.MountRoutes()

	// Health check endpoints
	router.Get("/health", healthHandler)
	router.Get("/healthz", healthHandler)

	// Root endpoint with API info
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"name":"textstat","version":"%s","docs":"/docs"}`, version)
	})

	// Documentation routes
	docsRouter := apiServer.DocsRouter("/docs/openapi.json")
	router.Mount("/docs", docsRouter.Routes())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Create standalone server for custom router
	server := api.NewServer(addr, slogger)
	server.Router().Mount("/", router)

	go func() {
		<-sigChan
		slogger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	slogger.Info("starting server", slog.String("addr", addr))
	if err := server.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
