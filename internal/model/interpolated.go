package model

import (
	"math"
	"slices"

	"github.com/chriscorrea/babble/internal/ngram"
)

// Interpolated blends Models of context length 0 through c.
//
// Every sub-model is weighted 1/(c+1), so the weights always sum to one and the
// blended probability stays a valid probability.
type Interpolated struct {
	c       int
	k       float64
	models  []*Model // models[i] has context length i
	lambdas []float64
	src     Source
}

// NewInterpolated returns an empty interpolated model over context lengths 0..c.
func NewInterpolated(c int, k float64, opts ...Option) (*Interpolated, error) {
	if err := validate(c, k); err != nil {
		return nil, err
	}

	src := buildOptions(opts).src
	im := &Interpolated{
		c:       c,
		k:       k,
		models:  make([]*Model, 0, c+1),
		lambdas: make([]float64, 0, c+1),
		src:     src,
	}
	for i := 0; i <= c; i++ {
		im.models = append(im.models, newModel(i, k, src))
		im.lambdas = append(im.lambdas, 1/float64(c+1))
	}

	return im, nil
}

// ContextLength returns c, the longest context among the sub-models.
func (im *Interpolated) ContextLength() int {
	return im.c
}

// K returns the smoothing constant shared by all sub-models.
func (im *Interpolated) K() float64 {
	return im.k
}

// Lambdas returns a copy of the interpolation weights, indexed by context length.
func (im *Interpolated) Lambdas() []float64 {
	return slices.Clone(im.lambdas)
}

// Models returns the sub-models, indexed by context length.
func (im *Interpolated) Models() []*Model {
	return slices.Clone(im.models)
}

// Update trains every sub-model on the full text.
func (im *Interpolated) Update(text string) {
	for _, m := range im.models {
		m.Update(text)
	}
}

// Prob returns the weighted sum of the sub-model probabilities. Each sub-model
// sees only the last m characters of context, where m is its context length.
func (im *Interpolated) Prob(context string, char rune) float64 {
	p := 0.0
	for i, m := range im.models {
		p += im.lambdas[i] * m.Prob(ngram.Tail(context, m.c), char)
	}
	return p
}

// RandomChar samples over the union of the sub-model vocabularies using the
// interpolated probability.
func (im *Interpolated) RandomChar(context string) (rune, error) {
	return sample(im.src, im.Vocab(), func(char rune) float64 {
		return im.Prob(context, char)
	})
}

// RandomText samples exactly length characters.
func (im *Interpolated) RandomText(length int) (string, error) {
	return generate(im.c, length, im.RandomChar)
}

// Perplexity scores text in log space over all of its n-grams:
// exp(-Σ log p / N). It returns +Inf as soon as an n-gram has no probability mass.
func (im *Interpolated) Perplexity(text string) (float64, error) {
	grams := ngram.Extract(im.c, text)
	if len(grams) == 0 {
		return 0, ErrNoNgrams
	}

	logProb := 0.0
	for _, g := range grams {
		p := im.Prob(g.Context, g.Char)
		if math.IsNaN(p) {
			return 0, ErrEmptyVocabulary
		}
		if p <= 0 {
			return math.Inf(1), nil
		}
		logProb += math.Log(p)
	}

	return math.Exp(-logProb / float64(len(grams))), nil
}

// Vocab returns the union of the sub-model vocabularies in lexicographic order.
func (im *Interpolated) Vocab() []rune {
	seen := make(map[rune]struct{})
	var vocab []rune
	for _, m := range im.models {
		for _, char := range m.Vocab() {
			if _, ok := seen[char]; ok {
				continue
			}
			seen[char] = struct{}{}
			vocab = append(vocab, char)
		}
	}
	slices.Sort(vocab)
	return vocab
}

// Stats reports the table sizes of the longest-context sub-model.
func (im *Interpolated) Stats() Stats {
	return im.models[len(im.models)-1].Stats()
}
