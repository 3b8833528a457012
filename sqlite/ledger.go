package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/sitecorpus"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sitecorpus.LedgerService = (*LedgerService)(nil)

// LedgerService implements sitecorpus.LedgerService using SQLite.
type LedgerService struct {
	db *DB
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(db *DB) *LedgerService {
	return &LedgerService{db: db}
}

// FindPages returns all pages of a site ordered by URL.
func (s *LedgerService) FindPages(ctx context.Context, site string) ([]*sitecorpus.LedgerPage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT site, url, last_modified, sitemap, content_hash, status, extracted_at
		FROM pages
		WHERE site = ?
		ORDER BY url
	`, site)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := []*sitecorpus.LedgerPage{}
	for rows.Next() {
		var page sitecorpus.LedgerPage
		var status, extractedAt string

		if err := rows.Scan(&page.Site, &page.URL, &page.LastModified, &page.Sitemap,
			&page.ContentHash, &status, &extractedAt); err != nil {
			return nil, err
		}

		page.Status = sitecorpus.PageStatus(status)
		if page.ExtractedAt, err = parseRFC3339(extractedAt, "extracted_at"); err != nil {
			return nil, err
		}

		pages = append(pages, &page)
	}

	return pages, rows.Err()
}

// UpsertPage creates the page or replaces every column of the existing one.
func (s *LedgerService) UpsertPage(ctx context.Context, page *sitecorpus.LedgerPage) error {
	if err := page.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (site, url, last_modified, sitemap, content_hash, status, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (site, url) DO UPDATE SET
			last_modified = excluded.last_modified,
			sitemap = excluded.sitemap,
			content_hash = excluded.content_hash,
			status = excluded.status,
			extracted_at = excluded.extracted_at
	`, page.Site, page.URL, page.LastModified, page.Sitemap, page.ContentHash,
		string(page.Status), formatTime(page.ExtractedAt))

	return err
}

// DeletePage permanently removes a page.
func (s *LedgerService) DeletePage(ctx context.Context, site, url string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE site = ? AND url = ?", site, url)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sitecorpus.Errorf(sitecorpus.ENOTFOUND, "page not found")
	}

	return nil
}

// CreateRun records a new run with a generated ID and start time.
func (s *LedgerService) CreateRun(ctx context.Context, run *sitecorpus.Run) error {
	if run.Site == "" {
		return sitecorpus.Errorf(sitecorpus.EINVALID, "run site required")
	}

	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC().Truncate(time.Second)
	run.FinishedAt = time.Time{}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, site, started_at)
		VALUES (?, ?, ?)
	`, run.ID, run.Site, formatTime(run.StartedAt))

	return err
}

// FinishRun stamps the finish time and stores the run counters.
func (s *LedgerService) FinishRun(ctx context.Context, run *sitecorpus.Run) error {
	run.FinishedAt = time.Now().UTC().Truncate(time.Second)

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, added = ?, modified = ?, removed = ?, saved = ?, empty = ?, failed = ?
		WHERE id = ?
	`, formatTime(run.FinishedAt), run.Added, run.Modified, run.Removed,
		run.Saved, run.Empty, run.Failed, run.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sitecorpus.Errorf(sitecorpus.ENOTFOUND, "run not found")
	}

	return nil
}

// FindLastRun returns the most recently started run of a site.
func (s *LedgerService) FindLastRun(ctx context.Context, site string) (*sitecorpus.Run, error) {
	var run sitecorpus.Run
	var startedAt, finishedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, site, started_at, finished_at, added, modified, removed, saved, empty, failed
		FROM runs
		WHERE site = ?
		ORDER BY started_at DESC, rowid DESC
		LIMIT 1
	`, site).Scan(&run.ID, &run.Site, &startedAt, &finishedAt, &run.Added, &run.Modified,
		&run.Removed, &run.Saved, &run.Empty, &run.Failed)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, sitecorpus.Errorf(sitecorpus.ENOTFOUND, "no runs for site %q", site)
	}
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}

	return &run, nil
}
