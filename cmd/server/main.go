// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

// Command server runs the Picky search backend: lexicon-driven query
// expansion, intent inference and retrieval ranking behind a REST API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/picky-app/picky-server/internal/api"
	"github.com/picky-app/picky-server/internal/cache"
	"github.com/picky-app/picky-server/internal/config"
	"github.com/picky-app/picky-server/internal/lexicon"
	"github.com/picky-app/picky-server/internal/logging"
	"github.com/picky-app/picky-server/internal/search"
	"github.com/picky-app/picky-server/internal/source"
	"github.com/picky-app/picky-server/internal/supervisor"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("metadata_url", cfg.Metadata.URL).
		Msg("starting picky server")

	// The lexicon is built once and read-only for the process lifetime.
	lx := lexicon.Default()

	engine := search.NewEngine(
		lx,
		source.NewMetadataClient(&cfg.Metadata),
		source.NewClassifierClient(&cfg.Classifier),
		source.NewDiscoverClient(&cfg.Discover),
		cache.NewLRU[search.Response]("search", cfg.Search.CacheSize, cfg.Search.CacheTTL),
		search.Options{
			MaxVariants:  cfg.Search.MaxVariants,
			MaxKeywords:  cfg.Search.MaxKeywords,
			DefaultLimit: cfg.Search.DefaultLimit,
			Region:       cfg.Discover.Region,
		},
	)

	router := api.NewRouter(api.NewHandler(engine, lx), api.RouterConfig{
		CORSOrigins:       cfg.Server.CORSOrigins,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)
	tree.Add(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logging.Info().Msg("shutdown complete")
	return nil
}
