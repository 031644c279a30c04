// gowdata ingests a game data dump, translates it into every configured
// locale and optionally serves queries over the result.
//
// Usage:
//
//	go run ./cmd/gowdata -config data/gowdata.yaml -serve :4000 -ws :4443
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/lawnchairsociety/gowdata/internal/assets"
	"github.com/lawnchairsociety/gowdata/internal/config"
	"github.com/lawnchairsociety/gowdata/internal/logger"
	"github.com/lawnchairsociety/gowdata/internal/server"
	"github.com/lawnchairsociety/gowdata/internal/world"
)

func main() {
	configFile := flag.String("config", "data/gowdata.yaml", "Path to config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	assetDir := flag.String("assets", "", "Override the asset directory from the config")
	serveAddr := flag.String("serve", "", "Serve line-delimited JSON queries on this address (e.g. :4000)")
	wsAddr := flag.String("ws", "", "Serve WebSocket queries on this address (e.g. :4443)")
	flag.Parse()

	logConfig, err := logger.LoadConfig(*loggingConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load logging config: %v\n", err)
	}
	if err := logger.Initialize(logConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Error("Failed to load config", "path", *configFile, "error", err)
		os.Exit(1)
	}
	if *assetDir != "" {
		cfg.Assets.Dir = *assetDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := world.NewRegistry(cfg)
	if err != nil {
		logger.Error("Invalid locale configuration", "error", err)
		os.Exit(1)
	}

	table, err := world.LoadTable(ctx, cfg, registry)
	if err != nil {
		logger.Error("Failed to load translations", "source", cfg.Translations.Source, "error", err)
		os.Exit(1)
	}

	logger.Info("Loading game data", "assets", cfg.Assets.Dir, "locales", registry.Codes())
	w, err := world.Load(cfg, assets.NewDirLoader(cfg.Assets.Dir), table)
	if err != nil {
		logger.Error("Failed to load game data", "error", err)
		os.Exit(1)
	}
	logSummary(w)

	if *serveAddr == "" && *wsAddr == "" {
		return
	}

	srv := server.NewServer(cfg, w, registry)
	errs := make(chan error, 2)
	if *serveAddr != "" {
		go func() { errs <- srv.Start(*serveAddr) }()
	}
	if *wsAddr != "" {
		go func() { errs <- srv.StartWebSocket(*wsAddr) }()
	}

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case err := <-errs:
		if err != nil {
			logger.Error("Server error", "error", err)
			srv.Shutdown()
			os.Exit(1)
		}
	}
	srv.Shutdown()
}

func logSummary(w *world.World) {
	s := w.Summary()

	kinds := make([]string, 0, len(s.Counts))
	for kind := range s.Counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		logger.Info("Entities", "kind", kind, "count", s.Counts[kind])
	}

	logger.Info("Timeline",
		"spoilers", s.Spoilers,
		"events", s.Events,
		"soulforge_windows", s.Soulforge,
		"campaign_tasks", s.Campaign)

	for _, gap := range s.Gaps {
		logger.Debug("Tolerated gap", "kind", gap.Kind, "key", gap.Key, "referrer", gap.Referrer)
	}
	if len(s.Gaps) > 0 {
		logger.Warning("Unresolved references tolerated", "count", len(s.Gaps))
	}

	for _, locale := range w.Locales() {
		digests := w.Digests(locale)
		args := []any{"locale", locale}
		for _, kind := range world.Kinds {
			args = append(args, kind, digests[kind][:12])
		}
		logger.Info("Snapshot digests", args...)
	}
}
