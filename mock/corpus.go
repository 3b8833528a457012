package mock

import (
	"context"

	"github.com/fwojciec/sitecorpus"
)

var _ sitecorpus.CorpusWriter = (*CorpusWriter)(nil)

// CorpusWriter is a mock implementation of sitecorpus.CorpusWriter.
type CorpusWriter struct {
	WriteCorpusFn func(ctx context.Context, name string, a *sitecorpus.Assembly) error
}

func (w *CorpusWriter) WriteCorpus(ctx context.Context, name string, a *sitecorpus.Assembly) error {
	return w.WriteCorpusFn(ctx, name, a)
}
