package app

import (
	"fmt"

	"github.com/chriscorrea/babble/internal/counter"
	"github.com/chriscorrea/babble/internal/model"
)

// StatsReport describes a corpus and the model trained on it.
type StatsReport struct {
	Kind       string                  `json:"kind"`
	Documents  []Document              `json:"documents"`
	Measures   []counter.Measure       `json:"measures"`
	Vocabulary string                  `json:"vocabulary"`
	TopChars   []counter.CharFrequency `json:"top_characters"`
	Model      *model.Stats            `json:"model,omitempty"`
}

// Stats measures corpus with each counting method and reports lm's vocabulary,
// the top most frequent corpus characters and the model's table sizes.
func Stats(cfg Config, lm model.LanguageModel, corpus Corpus, methods []counter.CountingMethod, top int) (StatsReport, error) {
	text := corpus.Text()

	measures, err := counter.Summarize(text, methods...)
	if err != nil {
		return StatsReport{}, fmt.Errorf("failed to measure corpus: %w", err)
	}

	report := StatsReport{
		Kind:       cfg.Kind.String(),
		Documents:  corpus.Documents,
		Measures:   measures,
		Vocabulary: string(lm.Vocab()),
		TopChars:   counter.NewCharCounter().Top(text, top),
	}
	if s, ok := model.StatsOf(lm); ok {
		report.Model = &s
	}
	return report, nil
}
