package sitecorpus

import (
	"strings"
	"time"
)

// Site describes one website to harvest and how to extract its pages.
type Site struct {
	Name string `json:"name"`

	// URL is the site root. When Sitemaps is empty, sitemaps are discovered
	// from its robots.txt, falling back to /sitemap.xml.
	URL      string   `json:"url"`
	Sitemaps []string `json:"sitemaps"`

	// Include and Exclude are the CSS selectors passed to the extractor.
	Include       []string `json:"include"`
	Exclude       []string `json:"exclude"`
	FlattenTables bool     `json:"flattenTables"`

	// Filter restricts which sitemap URLs are harvested. Nil means all.
	Filter *URLFilter `json:"-"`
}

// Validate returns an error if the site contains invalid fields.
// Selector syntax is checked separately by the extractor implementation.
func (s *Site) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "site name required")
	}
	// Names become directory names under the unit store.
	if s.Name == "." || s.Name == ".." || strings.ContainsAny(s.Name, `/\`) {
		return Errorf(EINVALID, "site %q: name must not contain path separators", s.Name)
	}
	if len(s.Sitemaps) == 0 && s.URL == "" {
		return Errorf(EINVALID, "site %q: sitemap or site URL required", s.Name)
	}
	if len(s.Include) == 0 {
		return Errorf(EINVALID, "site %q: at least one include selector required", s.Name)
	}
	return nil
}

// ExtractRequest builds the extraction request for a page of this site.
func (s *Site) ExtractRequest(html string) *ExtractRequest {
	return &ExtractRequest{
		HTML:          html,
		Include:       s.Include,
		Exclude:       s.Exclude,
		FlattenTables: s.FlattenTables,
	}
}

// CorpusConfig controls how stored units are reassembled.
type CorpusConfig struct {
	// Name is the base file name of the master document and its parts.
	Name   string `json:"name"`
	Header string `json:"header"`

	// ChunkSizeKB is the soft upper bound of each part file in kilobytes.
	ChunkSizeKB int `json:"chunkSizeKb"`
}

// FetchConfig controls page retrieval.
type FetchConfig struct {
	UserAgent   string        `json:"userAgent"`
	Timeout     time.Duration `json:"timeout"`
	Interval    time.Duration `json:"interval"`
	Concurrency int           `json:"concurrency"`

	// MaxPages caps the number of changed pages processed per site and run.
	// Zero means no cap.
	MaxPages int `json:"maxPages"`
}

// Config is the complete harvesting configuration.
type Config struct {
	OutputDir string       `json:"outputDir"`
	Corpus    CorpusConfig `json:"corpus"`
	Fetch     FetchConfig  `json:"fetch"`
	Sites     []*Site      `json:"sites"`
}

// Validate returns an error if the configuration is unusable.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return Errorf(EINVALID, "output directory required")
	}
	if c.Corpus.Name == "" {
		return Errorf(EINVALID, "corpus name required")
	}
	if c.Corpus.ChunkSizeKB <= 0 {
		return Errorf(EINVALID, "corpus chunk size must be positive, got %d", c.Corpus.ChunkSizeKB)
	}
	if c.Fetch.Concurrency < 0 {
		return Errorf(EINVALID, "fetch concurrency must not be negative")
	}
	if c.Fetch.MaxPages < 0 {
		return Errorf(EINVALID, "fetch max pages must not be negative")
	}

	seen := make(map[string]bool, len(c.Sites))
	for _, s := range c.Sites {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.Name] {
			return Errorf(ECONFLICT, "duplicate site name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// FindSite returns the site with the given name.
// Returns ENOTFOUND if no such site is configured.
func (c *Config) FindSite(name string) (*Site, error) {
	for _, s := range c.Sites {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, Errorf(ENOTFOUND, "site %q not found", name)
}
