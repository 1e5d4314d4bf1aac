package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/litreview/internal/paper"
)

func TestCollectKeepsTaskOrder(t *testing.T) {
	gate := NewGate(2)
	tasks := []Task{
		func(ctx context.Context) ([]paper.Paper, error) {
			return []paper.Paper{{ID: "a"}}, nil
		},
		func(ctx context.Context) ([]paper.Paper, error) {
			return nil, errors.New("query failed")
		},
		func(ctx context.Context) ([]paper.Paper, error) {
			return []paper.Paper{{ID: "b"}, {ID: "c"}}, nil
		},
	}

	batches, errs := Collect(context.Background(), gate, tasks)
	require.Len(t, batches, 3)
	assert.Equal(t, "a", batches[0][0].ID)
	assert.Nil(t, batches[1])
	assert.Len(t, batches[2], 2)

	assert.NoError(t, errs[0])
	assert.ErrorContains(t, errs[1], "query failed")
	assert.NoError(t, errs[2])

	flat := Flatten(batches)
	require.Len(t, flat, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{flat[0].ID, flat[1].ID, flat[2].ID})
}

func TestGateBoundsConcurrency(t *testing.T) {
	const limit = 3
	gate := NewGate(limit)

	var inFlight, peak int64
	var mu sync.Mutex
	release := make(chan struct{})

	tasks := make([]Task, 10)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) ([]paper.Paper, error) {
			n := atomic.AddInt64(&inFlight, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			<-release
			atomic.AddInt64(&inFlight, -1)
			return nil, nil
		}
	}

	done := make(chan struct{})
	go func() {
		Collect(context.Background(), gate, tasks)
		close(done)
	}()
	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, int64(limit))
}

func TestGateDoCancelled(t *testing.T) {
	gate := NewGate(1)
	block := make(chan struct{})
	holding := make(chan struct{})
	go gate.Do(context.Background(), func(ctx context.Context) error {
		close(holding)
		<-block
		return nil
	})
	<-holding

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := gate.Do(ctx, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	close(block)
}
