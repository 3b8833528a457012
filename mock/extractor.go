package mock

import "github.com/fwojciec/sitecorpus"

var _ sitecorpus.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of sitecorpus.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(req *sitecorpus.ExtractRequest) (string, bool, error)
}

func (e *TextExtractor) ExtractText(req *sitecorpus.ExtractRequest) (string, bool, error) {
	return e.ExtractTextFn(req)
}
