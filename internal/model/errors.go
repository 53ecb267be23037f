package model

import "errors"

var (
	// ErrEmptyVocabulary is returned when sampling or scoring needs a vocabulary
	// and the model has not seen any characters.
	ErrEmptyVocabulary = errors.New("model: vocabulary is empty")

	// ErrNoNgrams is returned when perplexity is requested for text that yields
	// no n-grams.
	ErrNoNgrams = errors.New("model: no n-grams to score")

	// ErrInvalidContextLength is returned for a negative context length.
	ErrInvalidContextLength = errors.New("model: context length must be non-negative")

	// ErrInvalidSmoothing is returned for a negative or NaN smoothing constant.
	ErrInvalidSmoothing = errors.New("model: smoothing constant must be non-negative")

	// ErrInvalidLength is returned when a negative amount of text is requested.
	ErrInvalidLength = errors.New("model: length must be non-negative")

	// ErrUnknownKind is returned by ParseKind for unrecognized model kinds.
	ErrUnknownKind = errors.New("model: unknown model kind")
)
