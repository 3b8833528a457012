package sitecorpus

import (
	"context"
	"time"
)

// PageStatus records the outcome of the last extraction of a page.
type PageStatus string

// PageStatus constants.
const (
	StatusPending PageStatus = "pending"
	StatusOK      PageStatus = "ok"
	StatusEmpty   PageStatus = "empty"
	StatusFailed  PageStatus = "failed"
)

// LedgerPage is the persisted state of a single harvested URL.
type LedgerPage struct {
	Site         string     `json:"site"`
	URL          string     `json:"url"`
	LastModified string     `json:"lastModified"`
	Sitemap      string     `json:"sitemap"`
	ContentHash  string     `json:"contentHash"`
	Status       PageStatus `json:"status"`
	ExtractedAt  time.Time  `json:"extractedAt"`
}

// Validate returns an error if the page contains invalid fields.
func (p *LedgerPage) Validate() error {
	if p.Site == "" {
		return Errorf(EINVALID, "ledger page site required")
	}
	if p.URL == "" {
		return Errorf(EINVALID, "ledger page URL required")
	}
	switch p.Status {
	case StatusPending, StatusOK, StatusEmpty, StatusFailed:
	default:
		return Errorf(EINVALID, "invalid ledger page status %q", p.Status)
	}
	return nil
}

// Run records the counters of one harvesting run for a site.
type Run struct {
	ID         string    `json:"id"`
	Site       string    `json:"site"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Added      int       `json:"added"`
	Modified   int       `json:"modified"`
	Removed    int       `json:"removed"`
	Saved      int       `json:"saved"`
	Empty      int       `json:"empty"`
	Failed     int       `json:"failed"`
}

// LedgerService persists per-URL harvesting state and run history.
type LedgerService interface {
	// FindPages returns all pages recorded for a site ordered by URL.
	FindPages(ctx context.Context, site string) ([]*LedgerPage, error)

	// UpsertPage creates or replaces the page keyed by (site, url).
	UpsertPage(ctx context.Context, page *LedgerPage) error

	// DeletePage removes a page.
	// Returns ENOTFOUND if the page does not exist.
	DeletePage(ctx context.Context, site, url string) error

	// CreateRun records the start of a run and assigns its ID.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun stores the final counters of a run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, run *Run) error

	// FindLastRun returns the most recently started run for a site.
	// Returns ENOTFOUND if the site has never been harvested.
	FindLastRun(ctx context.Context, site string) (*Run, error)
}

// Changes is the difference between the ledger and a fresh sitemap read.
type Changes struct {
	// Changed holds added and modified entries in sitemap order.
	Changed []SitemapEntry

	Added    int
	Modified int

	// Removed holds stored pages no longer listed by any sitemap.
	Removed []*LedgerPage
}

// DiffEntries compares stored pages with freshly read sitemap entries.
// An entry is added if its URL is unknown and modified if its lastmod
// differs from the stored one or its previous extraction did not finish.
func DiffEntries(stored []*LedgerPage, fresh []SitemapEntry) Changes {
	byURL := make(map[string]*LedgerPage, len(stored))
	for _, p := range stored {
		byURL[p.URL] = p
	}

	var c Changes
	listed := make(map[string]bool, len(fresh))
	for _, e := range fresh {
		listed[e.URL] = true
		p, ok := byURL[e.URL]
		switch {
		case !ok:
			c.Added++
		case p.LastModified != e.LastModified,
			p.Status != StatusOK && p.Status != StatusEmpty:
			c.Modified++
		default:
			continue
		}
		c.Changed = append(c.Changed, e)
	}

	for _, p := range stored {
		if !listed[p.URL] {
			c.Removed = append(c.Removed, p)
		}
	}

	return c
}
