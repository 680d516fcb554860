package estimator

import (
	"context"
)

// Input is what the estimator is asked to analyze. Exactly one of Text or
// Image is set: text mode carries the extractor's output, vision mode carries
// the raw upload.
type Input struct {
	Text      string
	Image     []byte
	ImageMIME string
}

// Estimator sends receipt content to a generative model and returns its raw
// textual output. The output is expected, but not guaranteed, to be a JSON
// object matching the analysis schema; the impact package decides that.
type Estimator interface {
	Estimate(ctx context.Context, in Input) (string, error)
}
