package screening

import (
	"context"
	"fmt"
	"sort"

	"github.com/joelkehle/litreview/internal/embed"
	"github.com/joelkehle/litreview/internal/paper"
)

type RelevanceScorer struct {
	encoder embed.Encoder
}

func NewRelevanceScorer(encoder embed.Encoder) *RelevanceScorer {
	return &RelevanceScorer{encoder: encoder}
}

// Score embeds the query and every paper's title+abstract, keeps papers whose
// cosine similarity meets the threshold, and returns them sorted by score
// descending. Ties keep their input order. This is the only screening stage
// that reorders.
func (r *RelevanceScorer) Score(ctx context.Context, query string, papers []paper.Paper, threshold float64) ([]paper.Paper, error) {
	if len(papers) == 0 {
		return nil, nil
	}

	texts := make([]string, 0, len(papers)+1)
	texts = append(texts, query)
	for _, p := range papers {
		texts = append(texts, p.Text())
	}
	vecs, err := r.encoder.Encode(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding papers for relevance: %w", err)
	}
	queryVec := vecs[0]

	type scored struct {
		p     paper.Paper
		score float64
	}
	var kept []scored
	for i, p := range papers {
		s := embed.Cosine(queryVec, vecs[i+1])
		if s >= threshold {
			kept = append(kept, scored{p: p, score: s})
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })

	out := make([]paper.Paper, len(kept))
	for i, s := range kept {
		out[i] = s.p
	}
	return out, nil
}
