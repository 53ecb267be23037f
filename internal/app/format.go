package app

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// OutputFormat defines the output format for reports
type OutputFormat int

const (
	// plaintext output format (default)
	Text OutputFormat = iota
	// JSON output format
	JSON
)

// String returns the string representation of the output
func (f OutputFormat) String() string {
	switch f {
	case Text:
		return "Text"
	case JSON:
		return "JSON"
	default:
		return "Unknown"
	}
}

// FormatFloat renders a perplexity or probability; non-finite values use +Inf and NaN.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsNaN(f):
		return "NaN"
	default:
		return strconv.FormatFloat(f, 'f', 4, 64)
	}
}

// jsonFloat maps non-finite values to null, which encoding/json cannot otherwise encode.
func jsonFloat(f float64) *float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return &f
}

type chunkScoreJSON struct {
	Index      int      `json:"index"`
	Perplexity *float64 `json:"perplexity"`
	Preview    string   `json:"preview"`
}

func toChunkScoreJSON(s *ChunkScore) *chunkScoreJSON {
	if s == nil {
		return nil
	}
	return &chunkScoreJSON{Index: s.Index, Perplexity: jsonFloat(s.Perplexity), Preview: s.Preview}
}

// FormatEval renders an evaluation report.
func FormatEval(report EvalReport, format OutputFormat) (string, error) {
	if format == JSON {
		chunks := make([]chunkScoreJSON, len(report.Chunks))
		for i := range report.Chunks {
			chunks[i] = *toChunkScoreJSON(&report.Chunks[i])
		}
		out := struct {
			Chunks   []chunkScoreJSON `json:"chunks"`
			Finite   int              `json:"finite"`
			Infinite int              `json:"infinite"`
			Mean     *float64         `json:"mean"`
			StdDev   *float64         `json:"std_dev"`
			Min      *float64         `json:"min"`
			Max      *float64         `json:"max"`
			Median   *float64         `json:"median"`
			Best     *chunkScoreJSON  `json:"best,omitempty"`
			Worst    *chunkScoreJSON  `json:"worst,omitempty"`
		}{
			Chunks:   chunks,
			Finite:   report.Finite,
			Infinite: report.Infinite,
			Mean:     jsonFloat(report.Mean),
			StdDev:   jsonFloat(report.StdDev),
			Min:      jsonFloat(report.Min),
			Max:      jsonFloat(report.Max),
			Median:   jsonFloat(report.Median),
			Best:     toChunkScoreJSON(report.Best),
			Worst:    toChunkScoreJSON(report.Worst),
		}
		return marshal(out)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Chunks:   %d (%d finite, %d infinite)\n", len(report.Chunks), report.Finite, report.Infinite)
	fmt.Fprintf(&b, "Mean:     %s\n", FormatFloat(report.Mean))
	fmt.Fprintf(&b, "Std dev:  %s\n", FormatFloat(report.StdDev))
	fmt.Fprintf(&b, "Min:      %s\n", FormatFloat(report.Min))
	fmt.Fprintf(&b, "Median:   %s\n", FormatFloat(report.Median))
	fmt.Fprintf(&b, "Max:      %s\n", FormatFloat(report.Max))
	if report.Best != nil {
		fmt.Fprintf(&b, "Best:     #%d %s %q\n", report.Best.Index, FormatFloat(report.Best.Perplexity), report.Best.Preview)
	}
	if report.Worst != nil {
		fmt.Fprintf(&b, "Worst:    #%d %s %q\n", report.Worst.Index, FormatFloat(report.Worst.Perplexity), report.Worst.Preview)
	}

	b.WriteString("\n")
	for _, s := range report.Chunks {
		fmt.Fprintf(&b, "  #%-4d %12s  %q\n", s.Index, FormatFloat(s.Perplexity), s.Preview)
	}
	return b.String(), nil
}

// FormatStats renders a stats report.
func FormatStats(report StatsReport, format OutputFormat) (string, error) {
	if format == JSON {
		return marshal(report)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Model:        %s", report.Kind)
	if report.Model != nil {
		fmt.Fprintf(&b, " (c=%d, k=%g)", report.Model.ContextLength, report.Model.Smoothing)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Documents:    %d\n", len(report.Documents))
	for _, doc := range report.Documents {
		fmt.Fprintf(&b, "  %s: %d chunks, %d dropped\n", doc.Source, doc.Chunks, doc.Dropped)
	}

	for _, m := range report.Measures {
		fmt.Fprintf(&b, "%-13s %d\n", m.Name+":", m.Count)
	}

	fmt.Fprintf(&b, "Vocabulary:   %d characters %q\n", len([]rune(report.Vocabulary)), report.Vocabulary)
	if report.Model != nil {
		fmt.Fprintf(&b, "Contexts:     %d\n", report.Model.Contexts)
		fmt.Fprintf(&b, "N-grams:      %d distinct, %d observed\n", report.Model.NGrams, report.Model.Observations)
	}

	if len(report.TopChars) > 0 {
		b.WriteString("Top characters:\n")
		for _, f := range report.TopChars {
			fmt.Fprintf(&b, "  %-6q %d\n", f.Char, f.Count)
		}
	}
	return b.String(), nil
}

func marshal(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(data) + "\n", nil
}
