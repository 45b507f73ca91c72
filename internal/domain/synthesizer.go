package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"autocov.dev/pkg/autocov/internal/adapter"
	m "autocov.dev/pkg/autocov/internal/model"
)

// Synthesizer turns a prompt into a raw block of candidate test code.
type Synthesizer interface {
	Synthesize(ctx context.Context, req m.GenerationRequest, model string) (m.GeneratedTestBlock, error)
}

type synthesizer struct {
	generator adapter.TextGenerator
	timeout   time.Duration
}

// NewSynthesizer constructs a Synthesizer. A zero timeout leaves the call
// bounded only by ctx.
func NewSynthesizer(generator adapter.TextGenerator, timeout time.Duration) Synthesizer {
	return &synthesizer{generator: generator, timeout: timeout}
}

// Synthesize sends one request. No retry is attempted.
func (s *synthesizer) Synthesize(ctx context.Context, req m.GenerationRequest, model string) (m.GeneratedTestBlock, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.generator.Generate(ctx, req.Prompt, model)
	if err != nil {
		slog.Error("Test generation failed", "source", req.Source, "model", model, "error", err)

		if errors.Is(err, adapter.ErrNoChoices) {
			return m.GeneratedTestBlock{}, fmt.Errorf("%w: %s", ErrMalformedResponse, req.Source)
		}

		return m.GeneratedTestBlock{}, fmt.Errorf("%w for %s: %w", ErrGeneration, req.Source, err)
	}

	code := unwrapCodeFence(text)
	if strings.TrimSpace(code) == "" {
		return m.GeneratedTestBlock{}, fmt.Errorf("%w: %s", ErrEmptyResponse, req.Source)
	}

	return m.GeneratedTestBlock{Source: req.Source, Code: code}, nil
}

// unwrapCodeFence returns the bodies of every fenced block, joined by a
// blank line, when the reply is wrapped in markdown, or the reply unchanged
// otherwise.
func unwrapCodeFence(text string) string {
	const fence = "```"

	var bodies []string

	rest := text

	for {
		start := strings.Index(rest, fence)
		if start < 0 {
			break
		}

		body := rest[start+len(fence):]

		// Drop the info string, e.g. ```python.
		nl := strings.Index(body, "\n")
		if nl < 0 {
			break
		}

		body = body[nl+1:]

		end := strings.Index(body, fence)
		if end < 0 {
			bodies = append(bodies, strings.TrimRight(body, "\n"))
			break
		}

		bodies = append(bodies, strings.TrimRight(body[:end], "\n"))
		rest = body[end+len(fence):]
	}

	if len(bodies) == 0 {
		return text
	}

	return strings.Join(bodies, "\n\n")
}
