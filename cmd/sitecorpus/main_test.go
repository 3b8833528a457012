package main_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	main "github.com/fwojciec/sitecorpus/cmd/sitecorpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSite serves a sitemap listing two pages.
func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>%[1]s/a</loc><lastmod>2025-01-01</lastmod></url>
  <url><loc>%[1]s/b</loc><lastmod>2025-01-02</lastmod></url>
</urlset>`, srv.URL)
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><nav>Menu</nav><main><h1>Alpha</h1><p>First page.</p></main></body></html>`)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><main><h1>Beta</h1><table><tr><th>Key</th></tr><tr><td>v</td></tr></table></main></body></html>`)
	})

	return srv
}

func writeTestConfig(t *testing.T, outDir, sitemapURL string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sitecorpus.yaml")
	content := fmt.Sprintf(`output_dir: %s
corpus:
  name: corpus
  header: "Test corpus"
  chunk_size_kb: 1
fetch:
  interval: 1ms
sites:
  - name: docs
    sitemaps: [%s]
    include: ["main"]
    flatten_tables: true
`, outDir, sitemapURL)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMain_Run_HarvestsAndBuilds(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)
	outDir := t.TempDir()
	configPath := writeTestConfig(t, outDir, srv.URL+"/sitemap.xml")

	m := &main.Main{}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--config", configPath, "run"}, stdout, stderr)

	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), "Harvesting docs")
	assert.Contains(t, stdout.String(), "Saved 2 pages")

	master, err := os.ReadFile(filepath.Join(outDir, "corpus.txt"))
	require.NoError(t, err)
	want := "Test corpus\n\n\n" +
		"Alpha\nFirst page.\n\nReference: " + srv.URL + "/a\n\n\n" +
		"Beta\n\nKey: v\n\nReference: " + srv.URL + "/b"
	assert.Equal(t, want, string(master))

	_, err = os.Stat(filepath.Join(outDir, "corpus_part_1.txt"))
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(outDir, main.DefaultDBName))
	assert.NoError(t, err, "ledger should default to the output directory")

	// The ledger records both pages, so a second run has nothing to fetch.
	stdout.Reset()
	err = (&main.Main{}).Run(context.Background(), []string{"--config", configPath, "run", "--no-build"}, stdout, stderr)
	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), "Listed 2 pages: 0 added, 0 modified, 0 removed")

	stdout.Reset()
	err = (&main.Main{}).Run(context.Background(), []string{"--config", configPath, "status"}, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "docs: 2 pages (2 ok, 0 empty, 0 failed)")
}

func TestMain_Run_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts local file without config", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "page.html")
		require.NoError(t, os.WriteFile(path, []byte(`<main><p>Hello <b>world</b></p><aside>Ad</aside></main>`), 0o644))

		m := main.NewMain()
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{
			"--config", filepath.Join(t.TempDir(), "missing.yaml"),
			"extract", path, "--include", "main", "--exclude", "aside",
		}, stdout, stderr)

		require.NoError(t, err, stderr.String())
		assert.Equal(t, "Hello world\n", stdout.String())
	})

	t.Run("extracts URL", func(t *testing.T) {
		t.Parallel()

		srv := newTestSite(t)
		m := main.NewMain()
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"extract", srv.URL + "/a", "-i", "h1"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "Alpha\n", stdout.String())
	})
}

func TestMain_Run_Validate(t *testing.T) {
	t.Parallel()

	t.Run("reports valid sites", func(t *testing.T) {
		t.Parallel()

		configPath := writeTestConfig(t, t.TempDir(), "https://example.com/sitemap.xml")
		m := main.NewMain()
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--config", configPath, "validate"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "ok    docs")
	})

	t.Run("fails for missing config", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "validate"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "SITECORPUS_CONFIG")
	})
}
