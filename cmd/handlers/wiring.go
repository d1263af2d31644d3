package handlers

import (
	"fmt"

	"postforge/internal/catalog"
	"postforge/internal/config"
	"postforge/internal/generate"
	"postforge/internal/ingest"
	"postforge/internal/provider"
	"postforge/internal/scrape"
	"postforge/internal/store"
)

// openStore opens the SQLite store under the configured data directory.
func openStore() (*store.Store, error) {
	cfg := config.Get()
	st, err := store.New(cfg.App.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}

// buildGenerator wires the full pipeline on top of an open store: provider
// adapter, scraper, ingestor and generator.
func buildGenerator(st *store.Store) *generate.Generator {
	cfg := config.Get()

	llm := provider.New(st, cfg.ProviderTimeout())
	scraper := scrape.New(cfg.ScrapeTimeout(), cfg.Scrape.UserAgent)
	ingestor := ingest.New(st, scraper, llm)

	return generate.New(st, ingestor, llm, catalog.ModelByID, cfg.Provider.MaxConcurrency)
}
