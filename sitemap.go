package sitecorpus

import (
	"context"
	"regexp"
)

// SitemapEntry is a single <url> record read from a sitemap.
type SitemapEntry struct {
	URL string `json:"url"`

	// LastModified is the raw <lastmod> value. It is compared textually,
	// so any change in the published value marks the page as modified.
	LastModified string `json:"lastModified"`

	// Sitemap is the URL of the leaf sitemap that listed the entry.
	Sitemap string `json:"sitemap"`
}

// SitemapService reads entries from website sitemaps.
type SitemapService interface {
	// FetchEntries returns all entries reachable from the sitemap URL.
	// Sitemap indexes are resolved recursively. Entries keep the order in
	// which they appear; duplicate URLs are dropped.
	FetchEntries(ctx context.Context, sitemapURL string) ([]SitemapEntry, error)

	// DiscoverSitemaps finds the sitemaps of a site from the Sitemap
	// directives of its robots.txt, falling back to /sitemap.xml.
	// Returns an empty slice if none are found.
	DiscoverSitemaps(ctx context.Context, siteURL string) ([]string, error)
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}

// FilterEntries returns the entries whose URL passes the filter, in order.
func FilterEntries(entries []SitemapEntry, filter *URLFilter) []SitemapEntry {
	if filter == nil {
		return entries
	}
	filtered := make([]SitemapEntry, 0, len(entries))
	for _, e := range entries {
		if filter.Match(e.URL) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
