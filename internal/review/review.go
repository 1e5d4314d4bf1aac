// Package review composes discovery, screening, and synthesis into the
// end-to-end literature-review workflow the CLI exposes.
package review

import (
	"context"
	"fmt"
	"log"

	"github.com/joelkehle/litreview/internal/config"
	"github.com/joelkehle/litreview/internal/discover"
	"github.com/joelkehle/litreview/internal/llm"
	"github.com/joelkehle/litreview/internal/paper"
	"github.com/joelkehle/litreview/internal/screening"
	"github.com/joelkehle/litreview/internal/synthesis"
	"github.com/joelkehle/litreview/internal/telemetry"
)

// PaperCache is the optional persistence collaborator. Nil disables caching.
type PaperCache interface {
	Set(p paper.Paper, source string) error
	Get(paperID string) (paper.Paper, bool, error)
	IsExpired(paperID string, ttlDays int) (bool, error)
}

type Runner struct {
	cfg       *config.Config
	discovery *discover.Orchestrator
	screening *screening.Pipeline
	synthesis *synthesis.Orchestrator
	completer llm.Completer
	cache     PaperCache
}

func NewRunner(cfg *config.Config, discovery *discover.Orchestrator, screen *screening.Pipeline, synth *synthesis.Orchestrator, completer llm.Completer, cache PaperCache) *Runner {
	return &Runner{
		cfg:       cfg,
		discovery: discovery,
		screening: screen,
		synthesis: synth,
		completer: completer,
		cache:     cache,
	}
}

// Search runs discovery only and returns the raw candidate set.
func (r *Runner) Search(ctx context.Context, query string) (paper.SearchResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "review.search")
	defer span.End()

	result, err := r.discovery.Run(ctx, query)
	if err != nil {
		return paper.SearchResult{}, fmt.Errorf("discovery: %w", err)
	}
	r.cachePapers(result.Papers)
	return result, nil
}

// Screen runs discovery then the screening funnel.
func (r *Runner) Screen(ctx context.Context, query string) ([]paper.Paper, error) {
	searched, err := r.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "review.screen")
	defer span.End()

	screened, err := r.screening.Run(ctx, searched.Papers, query, screening.Config{
		DateRangeYears:     r.cfg.Search.DateRangeYears,
		MinAbstractWords:   r.cfg.Search.MinAbstractWords,
		RelevanceThreshold: r.cfg.Search.RelevanceThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("screening: %w", err)
	}
	return screened, nil
}

// Run performs the full review and returns the synthesis result, including
// the rendered Markdown report.
func (r *Runner) Run(ctx context.Context, query string) (synthesis.Result, error) {
	screened, err := r.Screen(ctx, query)
	if err != nil {
		return synthesis.Result{}, err
	}

	ctx, span := telemetry.StartSpan(ctx, "review.synthesize")
	defer span.End()

	result, err := r.synthesis.Synthesize(ctx, screened, query, r.completer)
	if err != nil {
		return synthesis.Result{}, fmt.Errorf("synthesis: %w", err)
	}
	return result, nil
}

// Consensus screens papers for the question, then runs only the consensus
// vote over the survivors.
func (r *Runner) Consensus(ctx context.Context, question string) (synthesis.Consensus, error) {
	screened, err := r.Screen(ctx, question)
	if err != nil {
		return synthesis.Consensus{}, err
	}

	ctx, span := telemetry.StartSpan(ctx, "review.consensus")
	defer span.End()

	result, err := r.synthesis.Consensus(ctx, screened, question, r.completer)
	if err != nil {
		return synthesis.Consensus{}, fmt.Errorf("consensus: %w", err)
	}
	return result, nil
}

// Gaps screens papers for the query, then runs only the gap analysis.
func (r *Runner) Gaps(ctx context.Context, query string) (synthesis.GapResult, error) {
	screened, err := r.Screen(ctx, query)
	if err != nil {
		return synthesis.GapResult{}, err
	}

	ctx, span := telemetry.StartSpan(ctx, "review.gaps")
	defer span.End()

	result, err := r.synthesis.Gaps(ctx, screened, r.completer)
	if err != nil {
		return synthesis.GapResult{}, fmt.Errorf("gap analysis: %w", err)
	}
	return result, nil
}

// Synthesize runs the analysis over an already screened paper set.
func (r *Runner) Synthesize(ctx context.Context, papers []paper.Paper, query string) (synthesis.Result, error) {
	ctx, span := telemetry.StartSpan(ctx, "review.synthesize")
	defer span.End()
	return r.synthesis.Synthesize(ctx, papers, query, r.completer)
}

func (r *Runner) cachePapers(papers []paper.Paper) {
	if r.cache == nil || !r.cfg.Cache.Enabled {
		return
	}
	for _, p := range papers {
		if err := r.cache.Set(p, "search"); err != nil {
			log.Printf("litreview review cache write for %s failed: %v", p.ID, err)
			continue
		}
	}
}
