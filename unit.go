package sitecorpus

import "context"

// ReferencePrefix starts the footer appended to every stored unit.
const ReferencePrefix = "Reference: "

// TextUnit is the extracted text of one page. Body is never empty.
type TextUnit struct {
	SourceURL string `json:"sourceUrl"`
	Body      string `json:"body"`
}

// Validate returns an error if the unit contains invalid fields.
func (u *TextUnit) Validate() error {
	if u.SourceURL == "" {
		return Errorf(EINVALID, "unit source URL required")
	}
	if u.Body == "" {
		return Errorf(EINVALID, "unit body required")
	}
	return nil
}

// FormatUnit returns the stored form of a unit: its body followed by a
// blank line and a reference to the source URL.
func FormatUnit(u *TextUnit) string {
	return u.Body + "\n\n" + ReferencePrefix + u.SourceURL
}

// UnitStore persists one text file per page URL, grouped by site.
type UnitStore interface {
	// SaveUnit writes the formatted unit, replacing any previous version.
	SaveUnit(ctx context.Context, site string, unit *TextUnit) error

	// DeleteUnit removes the stored unit for a URL. Missing units are ignored.
	DeleteUnit(ctx context.Context, site, url string) error

	// ListUnits returns the contents of every stored unit of a site in
	// listing order. A site without units returns an empty slice.
	ListUnits(ctx context.Context, site string) ([]string, error)
}
