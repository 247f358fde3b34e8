package scoring

import (
	"context"
	"errors"
	"sync"
)

// stubProvider returns fixed vectors per text, falling back to def.
type stubProvider struct {
	mu      sync.Mutex
	vectors map[string][]float64
	def     []float64
	err     error
	calls   int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Embed(_ context.Context, text string) ([]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if v, ok := p.vectors[text]; ok {
		return v, nil
	}
	if p.def == nil {
		return nil, errors.New("no vector for " + text)
	}
	return p.def, nil
}
