// Package main is the entry point for the textstat CLI.
//
//	@title						Textstat API
//	@version					1.0
//	@description				Editor-style text statistics with cancellable, selection-aware counting
//	@host						localhost:8080
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	APIKeyAuth
//	@in							header
//	@name						X-API-KEY
package main

import (
	"fmt"
	"os"

	"github.com/helixml/textstat/internal/config"
	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "textstat",
		Short: "Textstat text-statistics server",
		Long:  `Textstat measures text the way an editor's counter does: lengths, characters, lines, words, and caret position, scoped to the whole document or to a selection.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(countCmd())
	cmd.AddCommand(stdioCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file, environment variables, and
// an optional YAML config file.
func loadConfig(envFile, configFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfigWithFile(envFile, configFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
