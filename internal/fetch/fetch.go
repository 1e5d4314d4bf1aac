// Package fetch bounds concurrent outbound API calls. Search and
// citation-graph expansion fan out dozens of requests; the gate keeps at most
// a fixed number in flight at once.
package fetch

import (
	"context"
	"sync"

	"github.com/joelkehle/litreview/internal/paper"
)

const DefaultLimit = 5

type Gate struct {
	sem chan struct{}
}

func NewGate(limit int) *Gate {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Gate{sem: make(chan struct{}, limit)}
}

// Do runs fn while holding a gate slot. It returns the context error if the
// caller is cancelled before a slot frees up.
func (g *Gate) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	select {
	case g.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-g.sem }()
	return fn(ctx)
}

// Task produces one batch of papers, typically a single search query or one
// citation-graph lookup.
type Task func(ctx context.Context) ([]paper.Paper, error)

// Collect runs all tasks through the gate and returns results and errors
// aligned by task index. A failed task leaves a nil batch and its error in
// place; the other tasks still run.
func Collect(ctx context.Context, gate *Gate, tasks []Task) ([][]paper.Paper, []error) {
	batches := make([][]paper.Paper, len(tasks))
	errs := make([]error, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task Task) {
			defer wg.Done()
			errs[i] = gate.Do(ctx, func(ctx context.Context) error {
				papers, err := task(ctx)
				if err != nil {
					return err
				}
				batches[i] = papers
				return nil
			})
		}(i, task)
	}
	wg.Wait()
	return batches, errs
}

// Flatten merges batches in task order, skipping nil batches from failed
// tasks.
func Flatten(batches [][]paper.Paper) []paper.Paper {
	var out []paper.Paper
	for _, b := range batches {
		out = append(out, b...)
	}
	return out
}
