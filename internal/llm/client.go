// Package llm is the text-completion collaborator used by the classifier,
// evidence extractor, consensus analyzer, gap analyzer, and strategy
// generator. Every prompt in the system goes through the Completer interface
// so tests can substitute a fake.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"regexp"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultModel = "claude-sonnet-4-5"

// ErrUnauthorized is returned immediately on a 401; it is never retried and
// callers must be able to tell it apart from rate limiting.
var ErrUnauthorized = errors.New("llm: invalid api key (401 unauthorized)")

// ErrRateLimited is returned after the retry budget for 429 responses is
// exhausted.
var ErrRateLimited = errors.New("llm: rate limited after retries")

// Completion is the raw result of one completion call.
type Completion struct {
	Content string
	Model   string
	Usage   map[string]int
}

type Completer interface {
	Complete(ctx context.Context, prompt string, opts ...Option) (Completion, error)
	ModelName() string
}

type callOptions struct {
	maxTokens   int
	temperature float64
}

type Option func(*callOptions)

func WithMaxTokens(n int) Option {
	return func(o *callOptions) { o.maxTokens = n }
}

func WithTemperature(t float64) Option {
	return func(o *callOptions) { o.temperature = t }
}

func applyOptions(opts []Option) callOptions {
	o := callOptions{maxTokens: 4096, temperature: 0.7}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

type messager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicCompleter implements Completer against the Anthropic messages API.
type AnthropicCompleter struct {
	messages messager
	model    string
}

func NewAnthropicCompleterFromEnv() (*AnthropicCompleter, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	model := strings.TrimSpace(os.Getenv("LITREVIEW_LLM_MODEL"))
	if model == "" {
		model = DefaultModel
	}
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicCompleter{messages: &c.Messages, model: model}, nil
}

func NewAnthropicCompleter(apiKey, model string) *AnthropicCompleter {
	if model == "" {
		model = DefaultModel
	}
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicCompleter{messages: &c.Messages, model: model}
}

func (a *AnthropicCompleter) ModelName() string { return a.model }

const maxAttempts = 3

// Complete issues one completion call. 429 responses are retried with
// exponential backoff (1s, 2s, 4s); a 401 fails immediately with
// ErrUnauthorized; any other failure is fatal for the call.
func (a *AnthropicCompleter) Complete(ctx context.Context, prompt string, opts ...Option) (Completion, error) {
	o := applyOptions(opts)
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(a.model),
			MaxTokens:   int64(o.maxTokens),
			Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
			Temperature: anthropic.Float(o.temperature),
		})
		if err == nil {
			var sb strings.Builder
			for _, b := range resp.Content {
				if b.Type == "text" {
					sb.WriteString(b.Text)
				}
			}
			return Completion{
				Content: sb.String(),
				Model:   string(resp.Model),
				Usage: map[string]int{
					"input_tokens":  int(resp.Usage.InputTokens),
					"output_tokens": int(resp.Usage.OutputTokens),
				},
			}, nil
		}
		lastErr = err
		switch classifyTransportError(err) {
		case failureUnauthorized:
			return Completion{}, fmt.Errorf("%w: %s", ErrUnauthorized, err)
		case failureRateLimit:
			if attempt < maxAttempts-1 {
				wait := time.Duration(1<<attempt) * time.Second
				log.Printf("litreview llm rate_limited attempt=%d wait=%s", attempt+1, wait)
				if err := sleepCtx(ctx, wait); err != nil {
					return Completion{}, err
				}
				continue
			}
			return Completion{}, fmt.Errorf("%w: %s", ErrRateLimited, err)
		default:
			return Completion{}, fmt.Errorf("llm completion failed: %w", err)
		}
	}
	return Completion{}, fmt.Errorf("%w: %s", ErrRateLimited, lastErr)
}

type failureClass int

const (
	failureOther failureClass = iota
	failureUnauthorized
	failureRateLimit
	failureTimeout
)

var statusCodeRe = regexp.MustCompile(`(?:status(?:\s+code)?[:=\s]+)(\d{3})`)

func classifyTransportError(err error) failureClass {
	if errors.Is(err, context.DeadlineExceeded) {
		return failureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return failureTimeout
	}
	msg := strings.ToLower(err.Error())
	if m := statusCodeRe.FindStringSubmatch(msg); len(m) == 2 {
		switch m[1] {
		case "401":
			return failureUnauthorized
		case "429":
			return failureRateLimit
		}
	}
	switch {
	case strings.Contains(msg, "401") && strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "authentication_error"),
		strings.Contains(msg, "invalid x-api-key"):
		return failureUnauthorized
	case strings.Contains(msg, "429"), strings.Contains(msg, "rate limit"), strings.Contains(msg, "rate_limit"):
		return failureRateLimit
	default:
		return failureOther
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
