// Package yaml loads the harvesting configuration from a YAML file.
package yaml

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/fwojciec/sitecorpus"
	"gopkg.in/yaml.v3"
)

// Default configuration values applied to fields left unset.
const (
	DefaultOutputDir   = "out"
	DefaultCorpusName  = "corpus"
	DefaultChunkSizeKB = 1024
	DefaultTimeout     = 10 * time.Second
	DefaultInterval    = 1 * time.Second
	DefaultConcurrency = 4
)

// fileConfig mirrors the YAML layout of the configuration file.
type fileConfig struct {
	OutputDir string       `yaml:"output_dir"`
	Corpus    corpusConfig `yaml:"corpus"`
	Fetch     fetchConfig  `yaml:"fetch"`
	Sites     []siteConfig `yaml:"sites"`
}

type corpusConfig struct {
	Name        string `yaml:"name"`
	Header      string `yaml:"header"`
	ChunkSizeKB int    `yaml:"chunk_size_kb"`
}

type fetchConfig struct {
	UserAgent   string        `yaml:"user_agent"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	MaxPages    int           `yaml:"max_pages"`
}

type siteConfig struct {
	Name          string   `yaml:"name"`
	URL           string   `yaml:"url"`
	Sitemaps      []string `yaml:"sitemaps"`
	Include       []string `yaml:"include"`
	Exclude       []string `yaml:"exclude"`
	FlattenTables bool     `yaml:"flatten_tables"`

	// Filter and FilterExclude are regular expressions matched against
	// sitemap URLs.
	Filter        []string `yaml:"filter"`
	FilterExclude []string `yaml:"filter_exclude"`
}

func (c *fileConfig) defaults() {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Corpus.Name == "" {
		c.Corpus.Name = DefaultCorpusName
	}
	if c.Corpus.ChunkSizeKB == 0 {
		c.Corpus.ChunkSizeKB = DefaultChunkSizeKB
	}
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = DefaultTimeout
	}
	if c.Fetch.Interval == 0 {
		c.Fetch.Interval = DefaultInterval
	}
	if c.Fetch.Concurrency == 0 {
		c.Fetch.Concurrency = DefaultConcurrency
	}
}

// LoadConfig reads, defaults and validates the configuration file at path.
// Returns ENOTFOUND if the file does not exist and EINVALID if it cannot be
// parsed or fails validation.
func LoadConfig(path string) (*sitecorpus.Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, sitecorpus.Errorf(sitecorpus.ENOTFOUND, "config file %s not found", path)
	} else if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes, defaults and validates YAML configuration data.
func ParseConfig(data []byte) (*sitecorpus.Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "parse yaml: %v", err)
	}
	fc.defaults()

	cfg := &sitecorpus.Config{
		OutputDir: fc.OutputDir,
		Corpus: sitecorpus.CorpusConfig{
			Name:        fc.Corpus.Name,
			Header:      fc.Corpus.Header,
			ChunkSizeKB: fc.Corpus.ChunkSizeKB,
		},
		Fetch: sitecorpus.FetchConfig{
			UserAgent:   fc.Fetch.UserAgent,
			Timeout:     fc.Fetch.Timeout,
			Interval:    fc.Fetch.Interval,
			Concurrency: fc.Fetch.Concurrency,
			MaxPages:    fc.Fetch.MaxPages,
		},
		Sites: make([]*sitecorpus.Site, 0, len(fc.Sites)),
	}

	for _, sc := range fc.Sites {
		filter, err := compileFilter(sc.Filter, sc.FilterExclude)
		if err != nil {
			return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "site %q: %v", sc.Name, err)
		}
		cfg.Sites = append(cfg.Sites, &sitecorpus.Site{
			Name:          sc.Name,
			URL:           sc.URL,
			Sitemaps:      sc.Sitemaps,
			Include:       sc.Include,
			Exclude:       sc.Exclude,
			FlattenTables: sc.FlattenTables,
			Filter:        filter,
		})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// compileFilter returns nil when no patterns are given.
func compileFilter(include, exclude []string) (*sitecorpus.URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	f := &sitecorpus.URLFilter{}
	for _, p := range include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", p, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, p := range exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid filter_exclude pattern %q: %w", p, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}
