package discover

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/joelkehle/litreview/internal/paper"
)

const (
	defaultMaxDepth       = 2
	traverseCitationFloor = 50
	recentTraversalWindow = 365 * 24 * time.Hour
)

type GraphExplorer struct {
	graph GraphSource
	now   func() time.Time
}

func NewGraphExplorer(graph GraphSource) *GraphExplorer {
	return &GraphExplorer{graph: graph, now: time.Now}
}

// Explore walks citations and references breadth-first from the seed papers
// up to maxDepth levels, skipping papers not worth traversing (old and
// lightly cited). Returns only newly discovered papers, never the seeds.
func (g *GraphExplorer) Explore(ctx context.Context, seeds []paper.Paper, maxDepth int) ([]paper.Paper, error) {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	log.Printf("litreview citations exploring graph from %d seeds, depth %d", len(seeds), maxDepth)

	visited := make(map[string]struct{}, len(seeds))
	for _, p := range seeds {
		visited[p.ID] = struct{}{}
	}

	currentLevel := append([]paper.Paper{}, seeds...)
	var results []paper.Paper

	for depth := 1; depth <= maxDepth; depth++ {
		var nextLevel []paper.Paper
		for _, p := range currentLevel {
			if !g.shouldTraverse(p) {
				continue
			}
			related, err := g.fetchEdges(ctx, p.ID)
			if err != nil {
				return nil, err
			}
			for _, r := range related {
				if _, ok := visited[r.ID]; ok {
					continue
				}
				visited[r.ID] = struct{}{}
				results = append(results, r)
				nextLevel = append(nextLevel, r)
			}
		}
		log.Printf("litreview citations depth %d added %d papers", depth, len(nextLevel))
		currentLevel = nextLevel
	}
	return results, nil
}

// fetchEdges gets citations and references concurrently and joins the pair.
func (g *GraphExplorer) fetchEdges(ctx context.Context, id string) ([]paper.Paper, error) {
	var (
		wg         sync.WaitGroup
		citations  []paper.Paper
		references []paper.Paper
		citeErr    error
		refErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		citations, citeErr = g.graph.GetCitations(ctx, id)
	}()
	go func() {
		defer wg.Done()
		references, refErr = g.graph.GetReferences(ctx, id)
	}()
	wg.Wait()

	if err := errors.Join(citeErr, refErr); err != nil {
		return nil, err
	}
	return append(citations, references...), nil
}

// shouldTraverse expands recent papers unconditionally; older ones only when
// they carry enough citations to be worth the extra API calls.
func (g *GraphExplorer) shouldTraverse(p paper.Paper) bool {
	if g.isRecent(p) {
		return true
	}
	return p.CitationCount > traverseCitationFloor
}

func (g *GraphExplorer) isRecent(p paper.Paper) bool {
	published, ok := publicationTime(p)
	if !ok {
		return false
	}
	return g.now().Sub(published) <= recentTraversalWindow
}

func publicationTime(p paper.Paper) (time.Time, bool) {
	if p.PublicationDate != "" {
		for _, layout := range []string{"2006-01-02", time.RFC3339, "2006"} {
			if t, err := time.Parse(layout, p.PublicationDate); err == nil {
				return t, true
			}
		}
	}
	if p.Year != nil {
		return time.Date(*p.Year, 1, 1, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
