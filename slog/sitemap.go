package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitecorpus"
)

// Ensure LoggingSitemapService implements sitecorpus.SitemapService.
var _ sitecorpus.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with debug logging.
type LoggingSitemapService struct {
	next   sitecorpus.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next sitecorpus.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// FetchEntries delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) FetchEntries(ctx context.Context, sitemapURL string) (entries []sitecorpus.SitemapEntry, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap read",
			"url", sitemapURL,
			"count", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FetchEntries(ctx, sitemapURL)
}

// DiscoverSitemaps delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) DiscoverSitemaps(ctx context.Context, siteURL string) (sitemaps []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap discovery",
			"url", siteURL,
			"count", len(sitemaps),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverSitemaps(ctx, siteURL)
}
