package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/contractlens/internal/worker"
)

// generationFailed is the text some backends return in place of an error
const generationFailed = "Generation failed"

// Outcome tells the caller which branch a generation attempt took
type Outcome int

const (
	// OutcomeGenerated means Text holds usable output
	OutcomeGenerated Outcome = iota
	// OutcomeUnavailable means no generator, the sentinel, or empty output
	OutcomeUnavailable
	// OutcomeFailed means the call errored, panicked or timed out
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGenerated:
		return "generated"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Generation is the explicit result of one Generator call
type Generation struct {
	Outcome Outcome
	Text    string
	Err     error // Set for OutcomeFailed
}

// OK reports whether Text can be used
func (g Generation) OK() bool {
	return g.Outcome == OutcomeGenerated
}

// Generator wraps an optional Provider with a bounded timeout.
// It never returns an error or panics; every failure becomes an Outcome.
type Generator struct {
	provider Provider
	limiter  *worker.Limiter
	timeout  time.Duration
}

// NewGenerator creates a generator. A nil provider always yields OutcomeUnavailable.
// limiter may be nil.
func NewGenerator(provider Provider, timeout time.Duration, limiter *worker.Limiter) *Generator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Generator{provider: provider, limiter: limiter, timeout: timeout}
}

// Enabled reports whether a provider is configured
func (g *Generator) Enabled() bool {
	return g != nil && g.provider != nil
}

// Generate continues prompt with at most maxTokens tokens
func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) Generation {
	if !g.Enabled() {
		return Generation{Outcome: OutcomeUnavailable}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx, g.provider.Name()); err != nil {
			return Generation{Outcome: OutcomeFailed, Err: eris.Wrap(err, "llm: rate limit wait")}
		}
	}

	type reply struct {
		resp *GenerateResponse
		err  error
	}
	ch := make(chan reply, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- reply{err: eris.Errorf("llm: provider panicked: %v", r)}
			}
		}()
		resp, err := g.provider.Generate(ctx, GenerateRequest{Prompt: prompt, MaxTokens: maxTokens})
		ch <- reply{resp: resp, err: err}
	}()

	var r reply
	select {
	case r = <-ch:
	case <-ctx.Done():
		r = reply{err: eris.Wrap(ctx.Err(), "llm: generation timed out")}
	}

	if r.err != nil {
		zap.L().Debug("generation failed", zap.String("provider", g.provider.Name()), zap.Error(r.err))
		return Generation{Outcome: OutcomeFailed, Err: r.err}
	}
	if r.resp == nil {
		return Generation{Outcome: OutcomeUnavailable}
	}

	text := strings.TrimSpace(r.resp.Text)
	if text == "" || text == Unavailable || text == generationFailed {
		return Generation{Outcome: OutcomeUnavailable}
	}

	return Generation{Outcome: OutcomeGenerated, Text: text}
}
