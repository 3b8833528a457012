package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/fwojciec/sitecorpus"
)

// Ensure CorpusWriter implements sitecorpus.CorpusWriter at compile time.
var _ sitecorpus.CorpusWriter = (*CorpusWriter)(nil)

// CorpusWriter writes the master document as <name>.txt and each chunk as
// <name>_part_<index>.txt in a single directory.
type CorpusWriter struct {
	dir string
}

// NewCorpusWriter creates a new CorpusWriter that writes to dir.
func NewCorpusWriter(dir string) *CorpusWriter {
	return &CorpusWriter{dir: dir}
}

// MasterPath returns the path of the master document.
func (w *CorpusWriter) MasterPath(name string) string {
	return filepath.Join(w.dir, name+UnitExt)
}

// PartPath returns the path of the part file with the given index.
func (w *CorpusWriter) PartPath(name string, index int) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s_part_%d%s", name, index, UnitExt))
}

// WriteCorpus writes the master document and every chunk, then removes part
// files with indices beyond the new chunk count.
func (w *CorpusWriter) WriteCorpus(ctx context.Context, name string, a *sitecorpus.Assembly) error {
	if name == "" {
		return sitecorpus.Errorf(sitecorpus.EINVALID, "corpus name required")
	}
	if a == nil {
		return sitecorpus.Errorf(sitecorpus.EINVALID, "assembly required")
	}

	if err := writeFileAtomic(w.MasterPath(name), []byte(a.Master)); err != nil {
		return fmt.Errorf("writing master document: %w", err)
	}

	for _, c := range a.Chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeFileAtomic(w.PartPath(name, c.Index), []byte(c.String())); err != nil {
			return fmt.Errorf("writing part %d: %w", c.Index, err)
		}
	}

	return w.removeStaleParts(name, len(a.Chunks))
}

// Parts returns the paths of the existing part files of a corpus keyed by index.
func (w *CorpusWriter) Parts(name string) (map[int]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[int]string{}, nil
		}
		return nil, err
	}

	partRe := regexp.MustCompile(`^` + regexp.QuoteMeta(name) + `_part_(\d+)` + regexp.QuoteMeta(UnitExt) + `$`)
	parts := make(map[int]string)
	for _, e := range entries {
		m := partRe.FindStringSubmatch(e.Name())
		if m == nil || e.IsDir() {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		parts[index] = filepath.Join(w.dir, e.Name())
	}
	return parts, nil
}

func (w *CorpusWriter) removeStaleParts(name string, count int) error {
	parts, err := w.Parts(name)
	if err != nil {
		return err
	}
	for index, path := range parts {
		if index >= 1 && index <= count {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing stale part %d: %w", index, err)
		}
	}
	return nil
}
