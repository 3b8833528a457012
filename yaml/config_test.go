package yaml_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/sitecorpus"
	scyaml "github.com/fwojciec/sitecorpus/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
output_dir: ./build
corpus:
  name: docs
  header: "Example documentation"
  chunk_size_kb: 512
fetch:
  user_agent: test-agent/2.0
  timeout: 30s
  interval: 250ms
  concurrency: 8
  max_pages: 100
sites:
  - name: guide
    sitemaps:
      - https://example.com/sitemap.xml
    include: ["main", "article"]
    exclude: [".sidebar"]
    flatten_tables: true
    filter: ["/docs/"]
    filter_exclude: ["/docs/old/"]
  - name: blog
    url: https://blog.example.com
    include: ["article"]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sitecorpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("reads all fields", func(t *testing.T) {
		t.Parallel()

		cfg, err := scyaml.LoadConfig(writeConfig(t, fullConfig))

		require.NoError(t, err)
		assert.Equal(t, "./build", cfg.OutputDir)
		assert.Equal(t, sitecorpus.CorpusConfig{Name: "docs", Header: "Example documentation", ChunkSizeKB: 512}, cfg.Corpus)
		assert.Equal(t, sitecorpus.FetchConfig{
			UserAgent:   "test-agent/2.0",
			Timeout:     30 * time.Second,
			Interval:    250 * time.Millisecond,
			Concurrency: 8,
			MaxPages:    100,
		}, cfg.Fetch)

		require.Len(t, cfg.Sites, 2)
		guide := cfg.Sites[0]
		assert.Equal(t, "guide", guide.Name)
		assert.Equal(t, []string{"https://example.com/sitemap.xml"}, guide.Sitemaps)
		assert.Equal(t, []string{"main", "article"}, guide.Include)
		assert.Equal(t, []string{".sidebar"}, guide.Exclude)
		assert.True(t, guide.FlattenTables)
		require.NotNil(t, guide.Filter)
		assert.True(t, guide.Filter.Match("https://example.com/docs/a"))
		assert.False(t, guide.Filter.Match("https://example.com/docs/old/a"))
		assert.False(t, guide.Filter.Match("https://example.com/blog"))

		blog := cfg.Sites[1]
		assert.Equal(t, "https://blog.example.com", blog.URL)
		assert.Empty(t, blog.Sitemaps)
		assert.Nil(t, blog.Filter)
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := scyaml.LoadConfig(writeConfig(t, "sites: []\n"))

		require.NoError(t, err)
		assert.Equal(t, scyaml.DefaultOutputDir, cfg.OutputDir)
		assert.Equal(t, scyaml.DefaultCorpusName, cfg.Corpus.Name)
		assert.Equal(t, scyaml.DefaultChunkSizeKB, cfg.Corpus.ChunkSizeKB)
		assert.Equal(t, scyaml.DefaultTimeout, cfg.Fetch.Timeout)
		assert.Equal(t, scyaml.DefaultInterval, cfg.Fetch.Interval)
		assert.Equal(t, scyaml.DefaultConcurrency, cfg.Fetch.Concurrency)
		assert.Zero(t, cfg.Fetch.MaxPages)
	})

	t.Run("returns not found for missing file", func(t *testing.T) {
		t.Parallel()

		_, err := scyaml.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.Equal(t, sitecorpus.ENOTFOUND, sitecorpus.ErrorCode(err))
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := scyaml.LoadConfig(writeConfig(t, "sites: [\n"))

		assert.Equal(t, sitecorpus.EINVALID, sitecorpus.ErrorCode(err))
	})

	t.Run("rejects invalid filter pattern", func(t *testing.T) {
		t.Parallel()

		_, err := scyaml.LoadConfig(writeConfig(t, `
sites:
  - name: docs
    sitemaps: [https://example.com/sitemap.xml]
    include: [main]
    filter: ["("]
`))

		assert.Equal(t, sitecorpus.EINVALID, sitecorpus.ErrorCode(err))
		assert.Contains(t, sitecorpus.ErrorMessage(err), `"docs"`)
	})

	t.Run("rejects site without include selectors", func(t *testing.T) {
		t.Parallel()

		_, err := scyaml.LoadConfig(writeConfig(t, `
sites:
  - name: docs
    sitemaps: [https://example.com/sitemap.xml]
`))

		assert.Equal(t, sitecorpus.EINVALID, sitecorpus.ErrorCode(err))
	})

	t.Run("rejects duplicate site names", func(t *testing.T) {
		t.Parallel()

		_, err := scyaml.LoadConfig(writeConfig(t, `
sites:
  - name: docs
    sitemaps: [https://example.com/a.xml]
    include: [main]
  - name: docs
    sitemaps: [https://example.com/b.xml]
    include: [main]
`))

		assert.Equal(t, sitecorpus.ECONFLICT, sitecorpus.ErrorCode(err))
	})

	t.Run("rejects negative chunk size", func(t *testing.T) {
		t.Parallel()

		_, err := scyaml.LoadConfig(writeConfig(t, "corpus:\n  chunk_size_kb: -1\n"))

		assert.Equal(t, sitecorpus.EINVALID, sitecorpus.ErrorCode(err))
	})
}
