// Package static provides a canned inference backend for local development,
// seeding and load tests. It never leaves the process.
package static

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/arbiter-ai/arbiter/internal/core/ports"
)

type Backend struct {
	name      string
	responses map[string]string
	delay     time.Duration
}

type Option func(*Backend)

// WithResponse fixes the reply for an exact prompt.
func WithResponse(prompt, reply string) Option {
	return func(b *Backend) { b.responses[prompt] = reply }
}

// WithDelay simulates upstream latency.
func WithDelay(d time.Duration) Option {
	return func(b *Backend) { b.delay = d }
}

func NewBackend(name string, opts ...Option) *Backend {
	b := &Backend{
		name:      name,
		responses: make(map[string]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) Name() string { return b.name }

func (b *Backend) Generate(ctx context.Context, upstreamID, prompt string) (*ports.BackendResult, error) {
	if b.delay > 0 {
		select {
		case <-time.After(b.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	text, ok := b.responses[prompt]
	if !ok {
		// deterministic filler so repeated runs stay comparable
		h := fnv.New32a()
		_, _ = h.Write([]byte(prompt))
		text = fmt.Sprintf("canned response %08x from %s", h.Sum32(), upstreamID)
	}

	return &ports.BackendResult{Text: text}, nil
}
