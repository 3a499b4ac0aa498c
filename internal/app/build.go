// Package app assembles the service from its parts so main and tests share
// one construction path.
package app

import (
	"context"
	"fmt"

	"github.com/mkelsen/archivist/internal/config"
	"github.com/mkelsen/archivist/internal/httpapi"
	"github.com/mkelsen/archivist/internal/memento"
	"github.com/mkelsen/archivist/internal/observability"
	"github.com/mkelsen/archivist/internal/scene"
	"github.com/mkelsen/archivist/internal/story"
)

type BuildResult struct {
	Config    config.Config
	API       *httpapi.Server
	Store     *story.Store
	Processor *story.Processor
	Ledger    memento.Ledger
	Hub       *httpapi.Hub
	Metrics   *observability.Metrics

	// Cleanup releases external resources (DB pool) on shutdown.
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)
	window := observability.NewTurnWindow(256)
	rng := story.NewRand(cfg.RNGSeed)

	ledger, err := memento.NewLedger(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("memento ledger init failed: %w", err)
	}

	renderer, err := scene.New(scene.Config{
		Mode:         cfg.SceneRendererMode,
		URL:          cfg.SceneRendererURL,
		APIKey:       cfg.OpenRouterAPIKey,
		Model:        cfg.SceneModel,
		ImageBaseURL: cfg.SceneImageBaseURL,
		Rand:         rng,
	})
	if err != nil {
		_ = ledger.Close()
		return nil, fmt.Errorf("scene renderer init failed: %w", err)
	}

	store := story.NewStore()
	hub := httpapi.NewHub()
	processor := story.NewProcessor(story.ProcessorDeps{
		Store:    store,
		Mementos: memento.NewGenerator(ledger, rng),
		Renderer: renderer,
		Rand:     rng,
		Metrics:  metrics,
		Window:   window,
		Publish:  hub.Publish,
	})

	api := httpapi.New(cfg, processor, store, ledger, metrics, window, hub, rng)

	return &BuildResult{
		Config:    cfg,
		API:       api,
		Store:     store,
		Processor: processor,
		Ledger:    ledger,
		Hub:       hub,
		Metrics:   metrics,
		Cleanup:   ledger.Close,
	}, nil
}
