package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/bloom"
)

// Ensure SitemapService implements sitecorpus.SitemapService.
var _ sitecorpus.SitemapService = (*SitemapService)(nil)

// SitemapService reads sitemap entries via HTTP.
type SitemapService struct {
	client    *http.Client
	userAgent string
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client, userAgent string) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, userAgent: userAgent}
}

// FetchEntries returns the entries of a sitemap, following sitemap indexes
// depth-first. Each entry records the leaf sitemap that listed it.
func (s *SitemapService) FetchEntries(ctx context.Context, sitemapURL string) ([]sitecorpus.SitemapEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := s.processSitemap(ctx, sitemapURL, make(map[string]bool))
	if err != nil {
		return nil, err
	}
	if entries == nil {
		return []sitecorpus.SitemapEntry{}, nil
	}
	return bloom.Dedupe(entries), nil
}

// DiscoverSitemaps finds sitemap URLs from robots.txt or falls back to /sitemap.xml.
func (s *SitemapService) DiscoverSitemaps(ctx context.Context, siteURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(siteURL)
	if err != nil {
		return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "invalid site URL %q: %v", siteURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "invalid site URL %q: scheme and host required", siteURL)
	}

	// Sitemaps live at the root of the domain.
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	robotsURL := root.ResolveReference(&url.URL{Path: "/robots.txt"})
	sitemaps, err := s.parseSitemapsFromRobots(ctx, robotsURL.String())
	if err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}

	sitemapURL := root.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	exists, err := s.urlExists(ctx, sitemapURL.String())
	if err != nil {
		// Propagate context errors, treat other errors as "not found"
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return []string{}, nil
	}
	if exists {
		return []string{sitemapURL.String()}, nil
	}

	return []string{}, nil
}

// parseSitemapsFromRobots extracts Sitemap: directives from robots.txt.
func (s *SitemapService) parseSitemapsFromRobots(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.fetchURL(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			sitemapURL := strings.TrimSpace(line[len("sitemap:"):])
			if sitemapURL != "" {
				sitemaps = append(sitemaps, sitemapURL)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}

	return sitemaps, nil
}

// processSitemap fetches and parses a sitemap, handling both urlset and sitemapindex.
func (s *SitemapService) processSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]sitecorpus.SitemapEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Avoid processing the same sitemap twice
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.fetchURL(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML %s: %w", sitemapURL, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap XML %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		return s.processSitemapIndex(ctx, root, seen)
	}

	return parseURLSet(root, sitemapURL), nil
}

// processSitemapIndex processes a <sitemapindex> element recursively.
func (s *SitemapService) processSitemapIndex(ctx context.Context, root *etree.Element, seen map[string]bool) ([]sitecorpus.SitemapEntry, error) {
	var entries []sitecorpus.SitemapEntry

	for _, sitemap := range root.SelectElements("sitemap") {
		sitemapURL := childText(sitemap, "loc")
		if sitemapURL == "" {
			continue
		}

		found, err := s.processSitemap(ctx, sitemapURL, seen)
		if err != nil {
			return nil, err
		}
		entries = append(entries, found...)
	}

	return entries, nil
}

// parseURLSet extracts entries from a <urlset> element.
func parseURLSet(root *etree.Element, sitemapURL string) []sitecorpus.SitemapEntry {
	var entries []sitecorpus.SitemapEntry
	for _, urlEl := range root.SelectElements("url") {
		loc := childText(urlEl, "loc")
		if loc == "" {
			continue
		}
		entries = append(entries, sitecorpus.SitemapEntry{
			URL:          loc,
			LastModified: childText(urlEl, "lastmod"),
			Sitemap:      sitemapURL,
		})
	}
	return entries
}

// childText returns the trimmed text of the first child element with the tag.
func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

// fetchURL fetches a URL and returns the response body.
func (s *SitemapService) fetchURL(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := s.newRequest(ctx, http.MethodGet, targetURL)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, targetURL)
	}

	return resp.Body, nil
}

// urlExists checks if a URL returns 200 OK.
func (s *SitemapService) urlExists(ctx context.Context, targetURL string) (bool, error) {
	req, err := s.newRequest(ctx, http.MethodHead, targetURL)
	if err != nil {
		return false, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}

func (s *SitemapService) newRequest(ctx context.Context, method, targetURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	return req, nil
}
