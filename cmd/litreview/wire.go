package main

import (
	"context"
	"log"
	"os"

	"github.com/joelkehle/litreview/internal/cache"
	"github.com/joelkehle/litreview/internal/config"
	"github.com/joelkehle/litreview/internal/discover"
	"github.com/joelkehle/litreview/internal/embed"
	"github.com/joelkehle/litreview/internal/fetch"
	"github.com/joelkehle/litreview/internal/llm"
	"github.com/joelkehle/litreview/internal/pubmed"
	"github.com/joelkehle/litreview/internal/review"
	"github.com/joelkehle/litreview/internal/scholar"
	"github.com/joelkehle/litreview/internal/screening"
	"github.com/joelkehle/litreview/internal/synthesis"
	"github.com/joelkehle/litreview/internal/telemetry"
)

// buildRunner assembles the full pipeline from configuration. The returned
// cleanup flushes telemetry and closes the cache.
func buildRunner(ctx context.Context) (*review.Runner, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	if traceEndpoint != "" {
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Endpoint = traceEndpoint
	}
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
	})
	if err != nil {
		return nil, nil, err
	}

	apiKey := cfg.LLM.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	completer := llm.NewBreaker(llm.NewAnthropicCompleter(apiKey, cfg.LLM.Model))

	scholarClient := scholar.NewClient(scholar.ClientConfig{
		BaseURL: cfg.Scholar.BaseURL,
		APIKey:  cfg.Scholar.APIKey,
		RPS:     cfg.Scholar.RPS,
	})
	pubmedClient := pubmed.NewClient(pubmed.ClientConfig{
		BaseURL: cfg.PubMed.BaseURL,
		APIKey:  cfg.PubMed.APIKey,
		Email:   cfg.PubMed.Email,
		RPS:     cfg.PubMed.RPS,
	})
	encoder := embed.NewClient(embed.ClientConfig{
		BaseURL: cfg.Embedding.BaseURL,
		APIKey:  cfg.Embedding.APIKey,
		Model:   cfg.Embedding.Model,
	})

	gate := fetch.NewGate(cfg.Search.FetchConcurrency)
	discovery := discover.NewOrchestrator(
		discover.NewSurvey(scholarClient, pubmedClient),
		discover.NewStrategyGenerator(completer),
		discover.NewQueryExecutor(scholarClient, pubmedClient, gate),
		discover.NewGraphExplorer(scholarClient),
	)

	screen := screening.NewPipeline(screening.NewRelevanceScorer(encoder))
	synth := synthesis.NewOrchestrator()

	var paperCache review.PaperCache
	var closeCache func()
	if cfg.Cache.Enabled {
		store, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			log.Printf("litreview cli cache unavailable, continuing without: %v", err)
		} else {
			paperCache = store
			closeCache = func() { store.Close() }
		}
	}

	cleanup := func() {
		if closeCache != nil {
			closeCache()
		}
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("litreview cli tracing shutdown: %v", err)
		}
	}
	return review.NewRunner(cfg, discovery, screen, synth, completer, paperCache), cleanup, nil
}
