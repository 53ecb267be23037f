package model

import (
	"fmt"
	"strings"
)

// Kind selects which LanguageModel implementation to build.
type Kind int

const (
	// Base is a single fixed-context Model
	Base Kind = iota
	// InterpolatedKind blends every context length from 0 to c
	InterpolatedKind
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Base:
		return "base"
	case InterpolatedKind:
		return "interpolated"
	default:
		return "unknown"
	}
}

// ParseKind maps a name such as "base" or "interpolated" to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "base", "plain", "ngram":
		return Base, nil
	case "interpolated", "interpolation", "interp":
		return InterpolatedKind, nil
	default:
		return Base, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// NewLanguageModel is a factory for both model kinds.
func NewLanguageModel(kind Kind, c int, k float64, opts ...Option) (LanguageModel, error) {
	switch kind {
	case Base:
		m, err := New(c, k, opts...)
		if err != nil {
			return nil, err
		}
		return m, nil
	case InterpolatedKind:
		im, err := NewInterpolated(c, k, opts...)
		if err != nil {
			return nil, err
		}
		return im, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
}

// StatsOf returns the table statistics of lm when it exposes them.
func StatsOf(lm LanguageModel) (Stats, bool) {
	type statter interface{ Stats() Stats }
	if s, ok := lm.(statter); ok {
		return s.Stats(), true
	}
	return Stats{}, false
}
