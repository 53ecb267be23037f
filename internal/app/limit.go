package app

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/chriscorrea/babble/internal/chunk"
)

// SizingStrategy defines which part of a source is kept when a character limit applies
type SizingStrategy int

const (
	// Beginning keeps chunks from the start of the document (default)
	Beginning SizingStrategy = iota
	// Middle keeps chunks from the middle outward
	Middle
	// End keeps chunks from the end of the document
	End
)

// String returns the string representation of the sizing strategy
func (s SizingStrategy) String() string {
	switch s {
	case Beginning:
		return "Beginning"
	case Middle:
		return "Middle"
	case End:
		return "End"
	default:
		return "Unknown"
	}
}

// ParseSizingStrategy maps a strategy name to a SizingStrategy.
func ParseSizingStrategy(name string) (SizingStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "beginning", "start":
		return Beginning, nil
	case "middle":
		return Middle, nil
	case "end":
		return End, nil
	default:
		return Beginning, fmt.Errorf("unknown sizing strategy %q", name)
	}
}

// orderIndices returns chunk indices in the order the strategy visits them
func orderIndices(n int, strategy SizingStrategy) []int {
	indices := make([]int, 0, n)
	switch strategy {
	case End:
		for i := n - 1; i >= 0; i-- {
			indices = append(indices, i)
		}
	case Middle:
		if n == 0 {
			return indices
		}
		middle := n / 2
		indices = append(indices, middle)

		// expand outward alternating between right and left
		left, right := middle-1, middle+1
		for len(indices) < n {
			if right < n {
				indices = append(indices, right)
				right++
			}
			if left >= 0 {
				indices = append(indices, left)
				left--
			}
		}
	default:
		for i := range n {
			indices = append(indices, i)
		}
	}
	return indices
}

// limitSpans keeps chunk spans of text in strategy order until the next one
// would push the total past maxChars. Each span is charged its own characters
// plus the whitespace that follows it in text, so the rejoined result never
// exceeds the budget. The kept spans come back in document order. A first
// span larger than the whole budget is cut to fit.
func limitSpans(text string, spans []chunk.Span, maxChars int, strategy SizingStrategy) []chunk.Span {
	if maxChars <= 0 || len(spans) == 0 {
		return spans
	}

	order := orderIndices(len(spans), strategy)

	var selected []int
	used := 0
	for _, i := range order {
		span := spans[i]
		size := utf8.RuneCountInString(text[span.Start:span.End]) + utf8.RuneCountInString(followingSpace(text, span.End))
		if used+size > maxChars {
			break
		}
		selected = append(selected, i)
		used += size
	}

	if len(selected) == 0 {
		first := spans[order[0]]
		end := first.Start
		for range maxChars {
			_, width := utf8.DecodeRuneInString(text[end:first.End])
			end += width
		}
		return []chunk.Span{{Start: first.Start, End: end}}
	}

	slices.Sort(selected)
	kept := make([]chunk.Span, len(selected))
	for j, i := range selected {
		kept[j] = spans[i]
	}

	slog.Debug("Applied character limit", "strategy", strategy.String(), "maxChars", maxChars, "kept", len(kept), "total", len(spans), "characters", used)
	return kept
}

// joinSpans rebuilds text from the kept spans. Between two spans that were
// neighbours the source text is copied as is; where chunks were removed only
// the whitespace that followed the earlier span is kept.
func joinSpans(text string, kept []chunk.Span) string {
	var b strings.Builder
	for i, span := range kept {
		if i > 0 {
			gap := text[kept[i-1].End:span.Start]
			if strings.TrimSpace(gap) != "" {
				gap = followingSpace(text, kept[i-1].End)
			}
			b.WriteString(gap)
		}
		b.WriteString(text[span.Start:span.End])
	}
	return b.String()
}

// followingSpace returns the run of whitespace in text starting at offset.
func followingSpace(text string, offset int) string {
	rest := text[offset:]
	return rest[:len(rest)-len(strings.TrimLeftFunc(rest, unicode.IsSpace))]
}
