package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/helixml/textstat"
	"github.com/helixml/textstat/internal/log"
	"github.com/helixml/textstat/internal/mcp"
	"github.com/spf13/cobra"
)

func stdioCmd() *cobra.Command {
	var (
		envFile    string
		configFile string
	)

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

This lets AI assistants measure text and files with textstat's counting
tools. Configuration is loaded from environment variables and .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(envFile, configFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")
	cmd.Flags().StringVar(&configFile, "config", "", "Path to YAML config file")

	return cmd
}

func runStdio(envFile, configFile string) error {
	cfg, err := loadConfig(envFile, configFile)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// The MCP protocol owns stdout, so logs go to stderr.
	logger := log.NewLoggerWithWriter(os.Stderr, cfg.LogFormat(), cfg.LogLevel())
	slogger := logger.Slog()

	slogger.Info("starting MCP server",
		slog.String("version", version),
		slog.String("data_dir", cfg.DataDir()),
	)

	opts := append(clientOptions(cfg), textstat.WithLogger(slogger))

	client, err := textstat.New(opts...)
	if err != nil {
		return fmt.Errorf("create textstat client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close textstat client", slog.Any("error", err))
		}
	}()

	mcpServer := mcp.NewServer(client.Counts, slogger)

	return mcpServer.ServeStdio()
}
