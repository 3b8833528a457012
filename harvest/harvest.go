// Package harvest orchestrates incremental website harvesting: it reads
// sitemaps, detects changed pages against the ledger, fetches and extracts
// them concurrently and stores the resulting text units.
package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages processed in parallel when
// Harvester.Concurrency is not set.
const DefaultConcurrency = 4

// Harvester brings the stored units of a site up to date with its sitemaps.
type Harvester struct {
	Sitemaps    sitecorpus.SitemapService
	Fetcher     sitecorpus.Fetcher
	Extractor   sitecorpus.TextExtractor
	Ledger      sitecorpus.LedgerService
	Units       sitecorpus.UnitStore
	RateLimiter sitecorpus.DomainLimiter
	Concurrency int

	// MaxPages caps the number of changed pages processed per run.
	// Pages beyond the cap stay unprocessed and are picked up next run.
	MaxPages int

	RetryDelays []time.Duration
	Logger      *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Result holds the outcome of a harvesting run.
type Result struct {
	RunID string

	// Listed is the number of sitemap entries that passed the URL filter.
	Listed   int
	Added    int
	Modified int
	Removed  int

	// Deferred is the number of changed pages left for a later run by MaxPages.
	Deferred int

	Saved     int
	Unchanged int
	Empty     int
	Failed    int
	Bytes     int
}

// ProgressEvent reports progress during a harvesting run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressEmpty
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting harvesting progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single page.
type pageResult struct {
	position int
	entry    sitecorpus.SitemapEntry
	text     string
	found    bool
	err      error
}

// Run harvests one site. Sitemap read failures abort the run before any
// stored state changes; per-page failures are recorded in the ledger and
// retried on the next run.
func (h *Harvester) Run(ctx context.Context, site *sitecorpus.Site, progress ProgressFunc) (*Result, error) {
	if err := site.Validate(); err != nil {
		return nil, err
	}

	entries, err := h.readSitemaps(ctx, site)
	if err != nil {
		return nil, err
	}
	entries = sitecorpus.FilterEntries(entries, site.Filter)

	stored, err := h.Ledger.FindPages(ctx, site.Name)
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	changes := sitecorpus.DiffEntries(stored, entries)

	run := &sitecorpus.Run{Site: site.Name}
	if err := h.Ledger.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("creating run: %w", err)
	}

	result := &Result{
		RunID:    run.ID,
		Listed:   len(entries),
		Added:    changes.Added,
		Modified: changes.Modified,
	}

	for _, page := range changes.Removed {
		if err := h.Units.DeleteUnit(ctx, site.Name, page.URL); err != nil {
			return nil, fmt.Errorf("deleting unit of %s: %w", page.URL, err)
		}
		if err := h.Ledger.DeletePage(ctx, site.Name, page.URL); err != nil && sitecorpus.ErrorCode(err) != sitecorpus.ENOTFOUND {
			return nil, fmt.Errorf("deleting ledger page %s: %w", page.URL, err)
		}
		result.Removed++
	}

	changed := changes.Changed
	if h.MaxPages > 0 && len(changed) > h.MaxPages {
		result.Deferred = len(changed) - h.MaxPages
		changed = changed[:h.MaxPages]
	}

	results := h.processPages(ctx, site, changed, progress)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	previous := make(map[string]*sitecorpus.LedgerPage, len(stored))
	for _, p := range stored {
		previous[p.URL] = p
	}

	for _, r := range results {
		page := &sitecorpus.LedgerPage{
			Site:         site.Name,
			URL:          r.entry.URL,
			LastModified: r.entry.LastModified,
			Sitemap:      r.entry.Sitemap,
			ExtractedAt:  h.now(),
		}

		switch {
		case r.err != nil:
			page.Status = sitecorpus.StatusFailed
			if p, ok := previous[r.entry.URL]; ok {
				page.ContentHash = p.ContentHash
			}
			result.Failed++
		case !r.found:
			if err := h.Units.DeleteUnit(ctx, site.Name, r.entry.URL); err != nil {
				return nil, fmt.Errorf("deleting unit of %s: %w", r.entry.URL, err)
			}
			page.Status = sitecorpus.StatusEmpty
			result.Empty++
		default:
			page.Status = sitecorpus.StatusOK
			page.ContentHash = ContentHash(r.text)
			if p, ok := previous[r.entry.URL]; ok && p.Status == sitecorpus.StatusOK && p.ContentHash == page.ContentHash {
				result.Unchanged++
				break
			}
			unit := &sitecorpus.TextUnit{SourceURL: r.entry.URL, Body: r.text}
			if err := h.Units.SaveUnit(ctx, site.Name, unit); err != nil {
				return nil, fmt.Errorf("saving unit of %s: %w", r.entry.URL, err)
			}
			result.Saved++
			result.Bytes += len(r.text)
		}

		if err := h.Ledger.UpsertPage(ctx, page); err != nil {
			return nil, fmt.Errorf("updating ledger page %s: %w", r.entry.URL, err)
		}
	}

	run.Added = result.Added
	run.Modified = result.Modified
	run.Removed = result.Removed
	run.Saved = result.Saved
	run.Empty = result.Empty
	run.Failed = result.Failed
	if err := h.Ledger.FinishRun(ctx, run); err != nil {
		return nil, fmt.Errorf("finishing run: %w", err)
	}

	return result, nil
}

// readSitemaps reads every sitemap of a site, discovering them from the
// site URL when none are configured. Entries listed by several sitemaps
// keep their first position.
func (h *Harvester) readSitemaps(ctx context.Context, site *sitecorpus.Site) ([]sitecorpus.SitemapEntry, error) {
	sitemaps := site.Sitemaps
	if len(sitemaps) == 0 {
		found, err := h.Sitemaps.DiscoverSitemaps(ctx, site.URL)
		if err != nil {
			return nil, fmt.Errorf("sitemap discovery: %w", err)
		}
		if len(found) == 0 {
			return nil, sitecorpus.Errorf(sitecorpus.ENOTFOUND, "no sitemap found for site %q", site.Name)
		}
		sitemaps = found
	}

	var entries []sitecorpus.SitemapEntry
	for _, sitemapURL := range sitemaps {
		found, err := h.Sitemaps.FetchEntries(ctx, sitemapURL)
		if err != nil {
			return nil, fmt.Errorf("reading sitemap %s: %w", sitemapURL, err)
		}
		entries = append(entries, found...)
	}
	return bloom.Dedupe(entries), nil
}

// processPages fetches and extracts pages concurrently. Results are returned
// in the order of entries regardless of completion order.
func (h *Harvester) processPages(ctx context.Context, site *sitecorpus.Site, entries []sitecorpus.SitemapEntry, progress ProgressFunc) []pageResult {
	total := len(entries)
	results := make([]pageResult, total)
	if total == 0 {
		return results
	}

	concurrency := h.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan pageResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, entry := range entries {
			g.Go(func() error {
				resultCh <- h.processPage(gctx, site, i, entry)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var completed atomic.Int64
	for r := range resultCh {
		n := int(completed.Add(1))
		results[r.position] = r

		if progress == nil {
			continue
		}
		event := ProgressEvent{Type: ProgressCompleted, Completed: n, Total: total, URL: r.entry.URL}
		switch {
		case r.err != nil:
			event.Type = ProgressFailed
			event.Error = r.err
		case !r.found:
			event.Type = ProgressEmpty
		}
		progress(event)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return results
}

// processPage fetches and extracts a single page.
func (h *Harvester) processPage(ctx context.Context, site *sitecorpus.Site, position int, entry sitecorpus.SitemapEntry) pageResult {
	result := pageResult{
		position: position,
		entry:    entry,
	}

	if h.RateLimiter != nil {
		u, err := url.Parse(entry.URL)
		if err != nil {
			result.err = sitecorpus.Errorf(sitecorpus.EINVALID, "invalid page URL %q", entry.URL)
			return result
		}
		if err := h.RateLimiter.Wait(ctx, u.Host); err != nil {
			result.err = err
			return result
		}
	}

	delays := h.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetry(ctx, entry.URL, h.Fetcher.Fetch, delays, h.Logger)
	if err != nil {
		result.err = err
		return result
	}

	text, found, err := h.Extractor.ExtractText(site.ExtractRequest(html))
	if err != nil {
		result.err = err
		return result
	}

	result.text = text
	result.found = found
	return result
}

func (h *Harvester) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
