package harvest

import (
	"context"
	"fmt"

	"github.com/fwojciec/sitecorpus"
)

// Builder reassembles the stored units of all sites into the corpus.
type Builder struct {
	Units  sitecorpus.UnitStore
	Writer sitecorpus.CorpusWriter

	// TokenCounter, if set, is used to estimate the token count of every part.
	TokenCounter sitecorpus.TokenCounter
}

// PartInfo describes one written part file.
type PartInfo struct {
	Index  int
	Units  int
	Bytes  int
	Tokens int
}

// BuildResult holds the outcome of a build.
type BuildResult struct {
	Units       int
	MasterBytes int
	Parts       []PartInfo
}

// Build lists the units of the sites in order, assembles them and writes the
// master document and its parts. Units of one site keep their listing order
// and sites follow the order given.
func (b *Builder) Build(ctx context.Context, sites []string, corpus sitecorpus.CorpusConfig) (*BuildResult, error) {
	var units []string
	for _, site := range sites {
		found, err := b.Units.ListUnits(ctx, site)
		if err != nil {
			return nil, fmt.Errorf("listing units of %s: %w", site, err)
		}
		units = append(units, found...)
	}

	a, err := sitecorpus.Assemble(units, corpus.Header, sitecorpus.KilobytesToBytes(corpus.ChunkSizeKB))
	if err != nil {
		return nil, err
	}

	if err := b.Writer.WriteCorpus(ctx, corpus.Name, a); err != nil {
		return nil, fmt.Errorf("writing corpus: %w", err)
	}

	result := &BuildResult{
		Units:       len(units),
		MasterBytes: len(a.Master),
		Parts:       make([]PartInfo, 0, len(a.Chunks)),
	}
	for _, c := range a.Chunks {
		text := c.String()
		part := PartInfo{Index: c.Index, Units: len(c.Bodies), Bytes: len(text)}
		if b.TokenCounter != nil {
			tokens, err := b.TokenCounter.CountTokens(ctx, text)
			if err != nil {
				return nil, fmt.Errorf("counting tokens of part %d: %w", c.Index, err)
			}
			part.Tokens = tokens
		}
		result.Parts = append(result.Parts, part)
	}

	return result, nil
}
