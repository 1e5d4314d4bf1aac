package synthesis

import (
	"context"
	"log"

	"github.com/joelkehle/litreview/internal/llm"
	"github.com/joelkehle/litreview/internal/paper"
)

type Result struct {
	Evidence        []Evidence       `json:"evidence"`
	Classifications []Classification `json:"classifications"`
	Consensus       Consensus        `json:"consensus"`
	Gaps            GapResult        `json:"gaps"`
	Report          string           `json:"report"`
}

type Orchestrator struct {
	extractor  EvidenceExtractor
	classifier Classifier
	consensus  ConsensusAnalyzer
	gaps       GapAnalyzer
	report     ReportGenerator
}

func NewOrchestrator() *Orchestrator {
	return &Orchestrator{}
}

// Synthesize runs the full analysis over a screened paper set. Consensus only
// runs when the query reads as a yes/no question; ErrInsufficientData from it
// aborts the synthesis so callers never see a half-empty consensus.
func (o *Orchestrator) Synthesize(ctx context.Context, papers []paper.Paper, query string, completer llm.Completer) (Result, error) {
	log.Printf("litreview synthesis starting for %d papers", len(papers))

	evidence, err := o.extractor.ExtractEvidence(ctx, papers, completer)
	if err != nil {
		return Result{}, err
	}

	classifications, err := o.classifier.ClassifyStudies(ctx, papers, completer)
	if err != nil {
		return Result{}, err
	}

	var consensus Consensus
	if IsYesNoQuestion(query) {
		consensus, err = o.consensus.QuantifyConsensus(ctx, papers, query, completer)
		if err != nil {
			return Result{}, err
		}
	}

	gaps, err := o.gaps.AnalyzeGaps(ctx, papers, completer)
	if err != nil {
		return Result{}, err
	}

	report := o.report.GenerateReport(papers, evidence, consensus, gaps)

	return Result{
		Evidence:        evidence,
		Classifications: classifications,
		Consensus:       consensus,
		Gaps:            gaps,
		Report:          report,
	}, nil
}

// Consensus runs the consensus vote on its own, without the rest of the
// synthesis.
func (o *Orchestrator) Consensus(ctx context.Context, papers []paper.Paper, question string, completer llm.Completer) (Consensus, error) {
	return o.consensus.QuantifyConsensus(ctx, papers, question, completer)
}

// Gaps runs the gap analysis on its own.
func (o *Orchestrator) Gaps(ctx context.Context, papers []paper.Paper, completer llm.Completer) (GapResult, error) {
	return o.gaps.AnalyzeGaps(ctx, papers, completer)
}
