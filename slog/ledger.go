package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitecorpus"
)

// Ensure LoggingLedger implements sitecorpus.LedgerService.
var _ sitecorpus.LedgerService = (*LoggingLedger)(nil)

// LoggingLedger wraps a LedgerService with debug logging. Per-page writes
// are logged at debug level, run bookkeeping at info level.
type LoggingLedger struct {
	next   sitecorpus.LedgerService
	logger *slog.Logger
}

// NewLoggingLedger creates a new LoggingLedger.
func NewLoggingLedger(next sitecorpus.LedgerService, logger *slog.Logger) *LoggingLedger {
	return &LoggingLedger{next: next, logger: logger}
}

func (l *LoggingLedger) FindPages(ctx context.Context, site string) (pages []*sitecorpus.LedgerPage, err error) {
	defer func(begin time.Time) {
		l.logger.Info("ledger find pages",
			"site", site,
			"count", len(pages),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.FindPages(ctx, site)
}

func (l *LoggingLedger) UpsertPage(ctx context.Context, page *sitecorpus.LedgerPage) (err error) {
	defer func(begin time.Time) {
		l.logger.Debug("ledger upsert page",
			"site", page.Site,
			"url", page.URL,
			"status", page.Status,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.UpsertPage(ctx, page)
}

func (l *LoggingLedger) DeletePage(ctx context.Context, site, url string) (err error) {
	defer func(begin time.Time) {
		l.logger.Debug("ledger delete page",
			"site", site,
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.DeletePage(ctx, site, url)
}

func (l *LoggingLedger) CreateRun(ctx context.Context, run *sitecorpus.Run) (err error) {
	defer func() {
		l.logger.Info("run started",
			"site", run.Site,
			"run", run.ID,
			"err", err,
		)
	}()
	return l.next.CreateRun(ctx, run)
}

func (l *LoggingLedger) FinishRun(ctx context.Context, run *sitecorpus.Run) (err error) {
	defer func() {
		l.logger.Info("run finished",
			"site", run.Site,
			"run", run.ID,
			"added", run.Added,
			"modified", run.Modified,
			"removed", run.Removed,
			"saved", run.Saved,
			"empty", run.Empty,
			"failed", run.Failed,
			"err", err,
		)
	}()
	return l.next.FinishRun(ctx, run)
}

func (l *LoggingLedger) FindLastRun(ctx context.Context, site string) (*sitecorpus.Run, error) {
	return l.next.FindLastRun(ctx, site)
}
