package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"slices"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/chriscorrea/babble/internal/chunk"
	"github.com/chriscorrea/babble/internal/model"
)

// ChunkScore is the perplexity of one chunk of held-out text.
type ChunkScore struct {
	Index      int     `json:"index"`
	Perplexity float64 `json:"perplexity"`
	Preview    string  `json:"preview"`
}

// EvalReport summarizes perplexity over the chunks of a held-out text.
// Summary statistics cover finite scores only; chunks containing an unseen
// n-gram score +Inf and are counted in Infinite.
type EvalReport struct {
	Chunks   []ChunkScore `json:"chunks"`
	Finite   int          `json:"finite"`
	Infinite int          `json:"infinite"`
	Mean     float64      `json:"mean"`
	StdDev   float64      `json:"std_dev"`
	Min      float64      `json:"min"`
	Max      float64      `json:"max"`
	Median   float64      `json:"median"`
	Best     *ChunkScore  `json:"best,omitempty"`
	Worst    *ChunkScore  `json:"worst,omitempty"`
}

// Evaluate splits text into chunks of at most chunkSize characters and scores
// each one with lm. Chunks are scored concurrently; the report keeps document
// order. ctx allows cancellation between chunks.
func Evaluate(ctx context.Context, cfg Config, lm model.LanguageModel, text string) (EvalReport, error) {
	chunks := chunk.SplitText(text, cfg.ChunkSize)
	if len(chunks) == 0 {
		return EvalReport{}, fmt.Errorf("failed to evaluate: %w", model.ErrNoNgrams)
	}

	var bar *pb.ProgressBar
	if w := progressWriter(cfg); w != nil {
		bar = pb.New(len(chunks))
		bar.SetWriter(w)
		bar.Start()
	}

	scores := make([]ChunkScore, len(chunks))
	errs := make([]error, len(chunks))

	ch := make(chan struct{}, runtime.NumCPU())
	wg := sync.WaitGroup{}
	for i, text := range chunks {
		if ctx.Err() != nil {
			break
		}
		ch <- struct{}{}
		wg.Add(1)
		go func(i int, text string) {
			defer func() {
				<-ch
				wg.Done()
			}()
			perplexity, err := lm.Perplexity(text)
			scores[i] = ChunkScore{Index: i, Perplexity: perplexity, Preview: preview(text, 60)}
			errs[i] = err
			if bar != nil {
				bar.Increment()
			}
		}(i, text)
	}
	wg.Wait()

	if bar != nil {
		bar.Finish()
	}
	if err := ctx.Err(); err != nil {
		return EvalReport{}, err
	}
	if err := errors.Join(errs...); err != nil {
		return EvalReport{}, fmt.Errorf("failed to evaluate: %w", err)
	}

	report := summarize(scores)
	slog.Debug("Evaluation complete", "chunks", len(scores), "finite", report.Finite, "mean", report.Mean)
	return report, nil
}

func summarize(scores []ChunkScore) EvalReport {
	report := EvalReport{Chunks: scores}

	var finite []float64
	var finiteScores []ChunkScore
	for _, s := range scores {
		if math.IsInf(s.Perplexity, 1) {
			report.Infinite++
			continue
		}
		finite = append(finite, s.Perplexity)
		finiteScores = append(finiteScores, s)
	}
	report.Finite = len(finite)

	if len(finite) == 0 {
		inf := math.Inf(1)
		report.Mean, report.Min, report.Max, report.Median = inf, inf, inf, inf
		report.StdDev = math.NaN()
		report.Worst = &scores[0]
		return report
	}

	report.Mean = stat.Mean(finite, nil)
	if len(finite) > 1 {
		report.StdDev = stat.StdDev(finite, nil)
	}
	report.Min = floats.Min(finite)
	report.Max = floats.Max(finite)

	sorted := slices.Clone(finite)
	slices.Sort(sorted)
	report.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)

	best := finiteScores[floats.MinIdx(finite)]
	report.Best = &best

	// an unseen n-gram is always the worst chunk
	if report.Infinite > 0 {
		for i := range scores {
			if math.IsInf(scores[i].Perplexity, 1) {
				worst := scores[i]
				report.Worst = &worst
				break
			}
		}
	} else {
		worst := finiteScores[floats.MaxIdx(finite)]
		report.Worst = &worst
	}
	return report
}

func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "…"
}
