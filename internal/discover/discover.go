// Package discover finds candidate papers for a review: a broad survey of
// both databases, LLM-expanded multi-angle queries, and citation-graph
// expansion around the seed set.
package discover

import (
	"context"

	"github.com/joelkehle/litreview/internal/paper"
)

// SearchSource is the Semantic Scholar shaped search collaborator.
type SearchSource interface {
	SearchPapers(ctx context.Context, query string, limit, offset int) (paper.SearchResult, error)
}

// PubMedSource is the two-step PubMed collaborator: search for IDs, then
// fetch full records.
type PubMedSource interface {
	Search(ctx context.Context, query string, maxResults int) ([]string, error)
	FetchDetails(ctx context.Context, pmids []string) ([]paper.Paper, error)
}

// GraphSource walks citation edges of the bibliographic graph.
type GraphSource interface {
	GetCitations(ctx context.Context, id string) ([]paper.Paper, error)
	GetReferences(ctx context.Context, id string) ([]paper.Paper, error)
}
