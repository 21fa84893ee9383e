// Package main provides the ecoapi binary: the eco-ontology REST API and a
// few command line helpers around the same services.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mimir-aip/eco-ontology-go/pkg/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "ecoapi"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}
	var port string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Eco-ontology REST API",
		Long: `ecoapi serves the eco-ontology over REST.

It provides:
- Read endpoints for events, locations, users, campaigns, reservations,
  certifications, volunteers, assignments, sponsors and donations
- Blog and review writes as SPARQL updates
- Keyword and Gemini backed natural language search

Every request is answered from an Apache Jena Fuseki dataset.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), flags, port)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config")
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port; overrides the config")

	cmd.AddCommand(serveCmd(flags), searchCmd(flags), analyzeCmd(flags))

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// load reads the configuration and installs the default logger. Command
// line helpers keep stdout for their own output.
func (f *globalFlags) load(helper bool) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	if helper {
		cfg.Logging.Format = "text"
	}
	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
