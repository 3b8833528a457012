package sitecorpus

import (
	"context"
	"strings"
)

// UnitSeparator separates consecutive units, and the header from the first
// unit, in both the master document and every chunk.
const UnitSeparator = "\n\n\n"

// Chunk is one size-bounded part of the assembled corpus.
type Chunk struct {
	// Index is 1-based and increases by one per chunk with no gaps.
	Index  int      `json:"index"`
	Header string   `json:"header"`
	Bodies []string `json:"bodies"`
}

// String serializes the chunk as header + separator + bodies joined by separator.
func (c *Chunk) String() string {
	return c.Header + UnitSeparator + strings.Join(c.Bodies, UnitSeparator)
}

// Assembly is the result of packing units into a master document and chunks.
type Assembly struct {
	Master string   `json:"master"`
	Chunks []*Chunk `json:"chunks"`
}

// Assemble concatenates units into a master document and packs them greedily,
// in order, into chunks whose serialized size stays within limitBytes.
//
// A unit is never split. A unit that alone exceeds the limit is placed in a
// chunk of its own, so a chunk can exceed the limit by at most one unit.
// Sizes are measured in bytes of the UTF-8 encoding.
func Assemble(units []string, header string, limitBytes int) (*Assembly, error) {
	if limitBytes <= 0 {
		return nil, Errorf(EINVALID, "chunk limit must be positive, got %d", limitBytes)
	}

	a := &Assembly{
		Master: header + UnitSeparator + strings.Join(units, UnitSeparator),
	}

	current := &Chunk{Index: 1, Header: header}
	size := len(header)
	for _, unit := range units {
		candidate := size + len(UnitSeparator) + len(unit)
		if candidate > limitBytes && len(current.Bodies) > 0 {
			a.Chunks = append(a.Chunks, current)
			current = &Chunk{Index: current.Index + 1, Header: header}
			size = len(header)
			candidate = size + len(UnitSeparator) + len(unit)
		}
		current.Bodies = append(current.Bodies, unit)
		size = candidate
	}
	if len(current.Bodies) > 0 {
		a.Chunks = append(a.Chunks, current)
	}

	return a, nil
}

// KilobytesToBytes converts a configured chunk size in kilobytes to bytes.
func KilobytesToBytes(kb int) int {
	return kb * 1024
}

// CorpusWriter persists an assembled corpus.
type CorpusWriter interface {
	// WriteCorpus writes the master document and one file per chunk.
	// Part files left over from a previous, larger corpus are removed.
	WriteCorpus(ctx context.Context, name string, a *Assembly) error
}
