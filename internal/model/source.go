package model

import (
	"math/rand/v2"
	"sync"
)

// Source supplies the randomness used for sampling.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// Float64 returns a pseudo-random number in [0.0, 1.0).
	Float64() float64
	// IntN returns a pseudo-random number in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// Option configures a model at construction time.
type Option func(*options)

type options struct {
	src Source
}

// WithRand makes the model draw from src. The source is shared by every
// sub-model of an interpolated model.
func WithRand(src Source) Option {
	return func(o *options) {
		o.src = src
	}
}

// WithSeed makes sampling reproducible by drawing from a PCG source seeded with seed.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.src = rand.New(rand.NewPCG(seed, seed))
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.src == nil {
		o.src = globalSource{}
	} else if _, ok := o.src.(*lockedSource); !ok {
		o.src = &lockedSource{src: o.src}
	}

	return o
}

// globalSource draws from the process-wide generator, which is safe for concurrent use.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }
func (globalSource) IntN(n int) int   { return rand.IntN(n) }

// lockedSource serializes draws from a source that is not goroutine safe.
type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

func (l *lockedSource) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}
