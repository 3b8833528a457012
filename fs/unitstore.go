package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/sitecorpus"
)

// UnitExt is the file extension of stored units.
const UnitExt = ".txt"

// MaxUnitNameLen is the maximum length of a unit file name without extension.
const MaxUnitNameLen = 200

// Ensure UnitStore implements sitecorpus.UnitStore at compile time.
var _ sitecorpus.UnitStore = (*UnitStore)(nil)

// UnitStore keeps one text file per page under baseDir/<site>/.
type UnitStore struct {
	baseDir string
}

// NewUnitStore creates a new UnitStore rooted at baseDir.
func NewUnitStore(baseDir string) *UnitStore {
	return &UnitStore{baseDir: baseDir}
}

// SanitizeURL converts a URL to a file name without extension. Every
// character outside [A-Za-z0-9_-] becomes an underscore and the result is
// truncated to MaxUnitNameLen characters.
// Example: https://example.com/docs?x=1 → https___example_com_docs_x_1
func SanitizeURL(rawURL string) string {
	var b strings.Builder
	n := 0
	for _, r := range rawURL {
		if n == MaxUnitNameLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
		n++
	}
	return b.String()
}

// UnitPath returns the path of the file holding the unit of a URL.
func (s *UnitStore) UnitPath(site, url string) string {
	return filepath.Join(s.siteDir(site), SanitizeURL(url)+UnitExt)
}

func (s *UnitStore) siteDir(site string) string {
	return filepath.Join(s.baseDir, site)
}

// SaveUnit writes the unit body followed by its reference footer.
func (s *UnitStore) SaveUnit(ctx context.Context, site string, unit *sitecorpus.TextUnit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if site == "" {
		return sitecorpus.Errorf(sitecorpus.EINVALID, "unit site required")
	}
	if err := unit.Validate(); err != nil {
		return err
	}

	return writeFileAtomic(s.UnitPath(site, unit.SourceURL), []byte(sitecorpus.FormatUnit(unit)))
}

// DeleteUnit removes the unit file of a URL if it exists.
func (s *UnitStore) DeleteUnit(ctx context.Context, site, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(s.UnitPath(site, url))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ListUnits reads every unit file of a site in directory-listing order,
// which os.ReadDir defines as sorted by file name.
func (s *UnitStore) ListUnits(ctx context.Context, site string) ([]string, error) {
	entries, err := os.ReadDir(s.siteDir(site))
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	units := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != UnitExt {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.siteDir(site), name))
		if err != nil {
			return nil, err
		}
		units = append(units, string(data))
	}
	return units, nil
}
