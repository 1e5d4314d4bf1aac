package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned while the breaker is rejecting calls.
var ErrCircuitOpen = errors.New("llm: circuit breaker is open")

// Breaker wraps a Completer with a circuit breaker so a dead completion
// endpoint fails fast instead of burning the retry budget on every paper in a
// sequential loop.
type Breaker struct {
	inner   Completer
	breaker *gobreaker.CircuitBreaker
}

type BreakerConfig struct {
	MaxFailures uint32
	Timeout     time.Duration
}

func NewBreaker(inner Completer) *Breaker {
	return NewBreakerWithConfig(inner, BreakerConfig{MaxFailures: 3, Timeout: 30 * time.Second})
}

func NewBreakerWithConfig(inner Completer, cfg BreakerConfig) *Breaker {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	settings := gobreaker.Settings{
		Name:    "litreview-llm",
		Timeout: cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		// A 401 is a configuration problem, not endpoint health; it must not
		// open the circuit and mask the distinct error.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrUnauthorized)
		},
	}
	return &Breaker{inner: inner, breaker: gobreaker.NewCircuitBreaker(settings)}
}

func (b *Breaker) ModelName() string { return b.inner.ModelName() }

func (b *Breaker) Complete(ctx context.Context, prompt string, opts ...Option) (Completion, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return b.inner.Complete(ctx, prompt, opts...)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Completion{}, ErrCircuitOpen
		}
		return Completion{}, err
	}
	return result.(Completion), nil
}
