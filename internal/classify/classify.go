// Package classify flags corpus chunks that are boilerplate rather than prose.
//
// Public-domain corpora arrive wrapped in licence headers, tables of contents,
// transcriber notes and distribution footers. Training a character model on them
// teaches it to babble about licences, so they are filtered out before training.
// The classifier uses the share of boilerplate words in a chunk, with a stricter
// threshold near the start and end of a document where such text lives.
package classify

import (
	"log/slog"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kljensen/snowball"
)

// boilerplateWords holds raw and stemmed forms of words typical of front and
// back matter. A token counts when either its lowercase form or its English stem
// is present. Tokens in other scripts never match, so they count as prose.
// TODO: add non-English front-matter vocabulary once non-English corpora are tested
var boilerplateWords = map[string]struct{}{
	// --- Distribution & Licensing ---
	"agreement":  {},
	"copyright":  {},
	"disclaim":   {},
	"disclaimer": {},
	"distribut":  {},
	"donat":      {},
	"donate":     {},
	"donation":   {},
	"ebook":      {},
	"gutenberg":  {},
	"licens":     {},
	"license":    {},
	"liabil":     {},
	"permiss":    {},
	"project":    {},
	"refund":     {},
	"reserv":     {},
	"right":      {},
	"term":       {},
	"trademark":  {},
	"warranti":   {},
	"warranty":   {},

	// --- Catalogue Metadata ---
	"author":      {},
	"edit":        {},
	"encod":       {},
	"isbn":        {},
	"languag":     {},
	"language":    {},
	"note":        {},
	"produc":      {},
	"produced":    {},
	"releas":      {},
	"release":     {},
	"titl":        {},
	"title":       {},
	"transcrib":   {},
	"transcriber": {},
	"updat":       {},
	"use":         {},

	// --- Front & Back Matter ---
	"appendix": {},
	"chapter":  {},
	"content":  {},
	"contents": {},
	"footnot":  {},
	"footnote": {},
	"illustr":  {},
	"index":    {},
	"page":     {},
	"preface":  {},
	"volum":    {},

	// --- Web Residue ---
	"email": {},
	"http":  {},
	"https": {},
	"org":   {},
	"www":   {},
}

// Classifier flags boilerplate chunks.
type Classifier struct {
	// tokenRegex extracts word tokens in any script
	tokenRegex *regexp.Regexp
}

// NewClassifier creates and initializes a new Classifier instance
func NewClassifier() *Classifier {
	return &Classifier{
		tokenRegex: regexp.MustCompile(`\p{L}+`),
	}
}

// IsBoilerplate reports whether chunk, at chunkIndex of totalChunks, looks like
// front or back matter. Chunks without a single letter are boilerplate;
// out-of-range positions never are.
func (c *Classifier) IsBoilerplate(chunkText string, chunkIndex int, totalChunks int) bool {
	if totalChunks <= 0 || chunkIndex < 0 || chunkIndex >= totalChunks {
		return false
	}

	tokens := c.tokenRegex.FindAllString(strings.ToLower(chunkText), -1)
	if len(tokens) == 0 {
		return true
	}

	hits := 0
	for _, token := range tokens {
		if isBoilerplateWord(token) {
			hits++
		}
	}

	ratio := float64(hits) / float64(len(tokens))
	return ratio > threshold(chunkIndex, totalChunks)
}

// Filter returns the indices of the chunks that are not boilerplate, in order.
func (c *Classifier) Filter(chunks []string) []int {
	kept := make([]int, 0, len(chunks))
	for i, chunk := range chunks {
		if c.IsBoilerplate(chunk, i, len(chunks)) {
			slog.Debug("Dropping boilerplate chunk", "index", i, "preview", preview(chunk))
			continue
		}
		kept = append(kept, i)
	}
	return kept
}

func isBoilerplateWord(token string) bool {
	if _, ok := boilerplateWords[token]; ok {
		return true
	}
	if !isASCII(token) {
		return false
	}

	stemmed, err := snowball.Stem(token, "english", true)
	if err != nil {
		return false
	}
	_, ok := boilerplateWords[stemmed]
	return ok
}

// threshold rises from 0.1 at the document edges to 0.33 in the middle.
// Documents of three chunks or fewer use a flat 0.5.
func threshold(chunkIndex int, totalChunks int) float64 {
	if totalChunks <= 3 {
		return 0.5
	}

	relativePosition := float64(chunkIndex) / float64(totalChunks-1)
	positionFactor := 1.0 - math.Abs(2.0*relativePosition-1.0)

	const minThreshold, maxThreshold = 0.1, 0.33
	return minThreshold + (maxThreshold-minThreshold)*positionFactor
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func preview(chunk string) string {
	runes := []rune(chunk)
	if len(runes) <= 40 {
		return chunk
	}
	return string(runes[:40]) + "…"
}
