// # cmd/tsviz/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/deziev/tsviz/internal/config"
	"github.com/deziev/tsviz/internal/shared/observability"
)

var (
	configPath  = flag.String("config", "./tsviz.toml", "Path to config file")
	once        = flag.Bool("once", false, "Run single extraction and exit (overrides -watch)")
	watch       = flag.Bool("watch", false, "Keep running and re-extract on file changes")
	metricsAddr = flag.String("metrics-addr", "", "Listen address for /metrics and /health (overrides config)")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("tsviz v%s\n", VERSION)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./tsviz.toml" {
			cfg, err = config.Load("./tsviz.example.toml")
		}
		if err != nil {
			slog.Warn("no config file found, using defaults", "error", err)
			cfg = config.Default()
		}
	}

	if flag.NArg() > 0 {
		cfg.Paths = flag.Args()
	}
	if *metricsAddr != "" {
		cfg.Observability.MetricsAddr = *metricsAddr
	}

	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer shutdownTracing(ctx)

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if cfg.Observability.MetricsAddr != "" {
		obs := observability.NewServer(cfg.Observability.MetricsAddr, app.Health)
		if err := obs.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		defer obs.Stop(ctx)
	}

	// Initial extraction
	if err := app.InitialScan(ctx); err != nil {
		slog.Error("initial scan failed", "error", err)
		os.Exit(1)
	}

	if *once || !*watch {
		return
	}

	// Watch mode
	if err := app.StartWatcher(); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	// Block forever
	select {}
}
