package mock

import (
	"context"

	"github.com/fwojciec/sitecorpus"
)

var _ sitecorpus.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of sitecorpus.SitemapService.
type SitemapService struct {
	FetchEntriesFn     func(ctx context.Context, sitemapURL string) ([]sitecorpus.SitemapEntry, error)
	DiscoverSitemapsFn func(ctx context.Context, siteURL string) ([]string, error)
}

func (s *SitemapService) FetchEntries(ctx context.Context, sitemapURL string) ([]sitecorpus.SitemapEntry, error) {
	return s.FetchEntriesFn(ctx, sitemapURL)
}

func (s *SitemapService) DiscoverSitemaps(ctx context.Context, siteURL string) ([]string, error) {
	return s.DiscoverSitemapsFn(ctx, siteURL)
}
