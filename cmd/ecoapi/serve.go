package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mimir-aip/eco-ontology-go/pkg/api"
	"github.com/mimir-aip/eco-ontology-go/pkg/config"
	"github.com/mimir-aip/eco-ontology-go/pkg/history"
	"github.com/mimir-aip/eco-ontology-go/pkg/llm"
	"github.com/mimir-aip/eco-ontology-go/pkg/metrics"
	"github.com/mimir-aip/eco-ontology-go/pkg/monitor"
	"github.com/mimir-aip/eco-ontology-go/pkg/ontology"
	"github.com/mimir-aip/eco-ontology-go/pkg/search"
	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
	"github.com/mimir-aip/eco-ontology-go/pkg/taln"
)

const shutdownTimeout = 15 * time.Second

func serveCmd(flags *globalFlags) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), flags, port)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port; overrides the config")
	return cmd
}

// app holds the services shared by the server and the command line helpers
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *sparql.FusekiClient
	metrics   *metrics.Metrics
	services  *ontology.Services
	analyzer  *taln.Service
	search    *search.Service
	history   history.Store
	gemini    *llm.GeminiClient
	generator *llm.Generator
}

// newApp wires the services. Gemini and the history database are optional:
// without them search falls back to keywords and nothing is recorded.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, withHistory bool) (*app, error) {
	a := &app{cfg: cfg, logger: logger, metrics: metrics.New(), history: history.Nop{}}

	store, err := sparql.NewFusekiClient(cfg.Fuseki.Endpoint,
		sparql.WithTimeout(time.Duration(cfg.Fuseki.Timeout)*time.Second),
		sparql.WithObserver(a.metrics),
		sparql.WithLogger(logger.With("component", "fuseki")),
	)
	if err != nil {
		return nil, err
	}
	a.store = store
	a.services = ontology.NewServices(store, logger)

	a.analyzer = taln.NewService(taln.Config{
		APIKey:  cfg.TALN.APIKey,
		APIURL:  cfg.TALN.APIURL,
		Timeout: time.Duration(cfg.TALN.Timeout) * time.Second,
	}, logger.With("component", "taln"))

	if withHistory && cfg.History.DBPath != "" {
		if dir := filepath.Dir(cfg.History.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create history directory: %w", err)
			}
		}
		h, err := history.NewSQLiteStore(cfg.History.DBPath)
		if err != nil {
			return nil, err
		}
		a.history = h
		logger.Info("search history enabled", "db_path", cfg.History.DBPath)
	}

	opts := []search.Option{
		search.WithAnalyzer(a.analyzer),
		search.WithRecorder(a.history),
		search.WithObserver(a.metrics),
	}
	if cfg.GeminiEnabled() {
		gemini, err := llm.NewGeminiClient(ctx, llm.LLMClientConfig{
			Provider: llm.ProviderGoogle,
			APIKey:   cfg.Gemini.APIKey,
			Models:   cfg.Gemini.Models,
		}, logger.With("component", "gemini"))
		if err != nil {
			logger.Warn("gemini unavailable, semantic search uses keywords", "error", err)
		} else {
			a.gemini = gemini
			a.generator = llm.NewGenerator(gemini, logger)
			opts = append(opts, search.WithGenerator(a.generator))
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set, semantic search uses keywords")
	}
	a.search = search.NewService(store, search.NewSelector(), logger, opts...)

	return a, nil
}

func (a *app) Close() {
	if err := a.history.Close(); err != nil {
		a.logger.Warn("failed to close history store", "error", err)
	}
	if a.gemini != nil {
		if err := a.gemini.Close(); err != nil {
			a.logger.Warn("failed to close gemini client", "error", err)
		}
	}
}

func serve(ctx context.Context, flags *globalFlags, port string) error {
	cfg, logger, err := flags.load(false)
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}

	logger.Info("starting ecoapi",
		"version", Version,
		"environment", cfg.Environment,
		"fuseki", cfg.Fuseki.Endpoint)

	a, err := newApp(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.Monitor.Schedule != "" {
		mon := monitor.NewService(a.store, a.services.Stats, a.metrics, logger.With("component", "monitor"))
		if err := mon.Start(cfg.Monitor.Schedule); err != nil {
			return err
		}
		defer mon.Stop()
	}

	server := api.NewServer(api.Deps{
		Services:       a.services,
		Search:         a.search,
		Analyzer:       a.analyzer,
		History:        a.history,
		Metrics:        a.metrics,
		Store:          a.store,
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, cfg.Port)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- server.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
