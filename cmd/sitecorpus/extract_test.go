package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/sitecorpus"
	main "github.com/fwojciec/sitecorpus/cmd/sitecorpus"
	"github.com/fwojciec/sitecorpus/goquery"
	"github.com/fwojciec/sitecorpus/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCmd_Run(t *testing.T) {
	t.Parallel()

	const page = `<html><body><nav>Menu</nav><main><h2>Setup</h2><p>Run it.</p>` +
		`<table><tr><th>Flag</th><th>Meaning</th></tr><tr><td>-v</td><td>verbose</td></tr></table></main></body></html>`

	writePage := func(t *testing.T) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "page.html")
		require.NoError(t, os.WriteFile(path, []byte(page), 0o644))
		return path
	}

	t.Run("uses selectors from flags", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Extractor: goquery.NewExtractor(),
		}

		cmd := &main.ExtractCmd{Source: writePage(t), Include: []string{"main"}, FlattenTables: true}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "Setup\nRun it.\n\nFlag: -v, Meaning: verbose\n", stdout.String())
	})

	t.Run("uses selectors of a configured site", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Extractor: goquery.NewExtractor(),
			Config: &sitecorpus.Config{Sites: []*sitecorpus.Site{
				{Name: "docs", Include: []string{"main"}, Exclude: []string{"table"}},
			}},
		}

		cmd := &main.ExtractCmd{Source: writePage(t), Site: "docs"}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "Setup\nRun it.\n", stdout.String())
	})

	t.Run("fetches URLs", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					assert.Equal(t, "https://example.com/setup", url)
					return page, nil
				},
			},
			Extractor: goquery.NewExtractor(),
		}

		cmd := &main.ExtractCmd{Source: "https://example.com/setup", Include: []string{"h2"}}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "Setup\n", stdout.String())
	})

	t.Run("reports pages without text", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    &bytes.Buffer{},
			Stderr:    stderr,
			Extractor: goquery.NewExtractor(),
		}

		cmd := &main.ExtractCmd{Source: writePage(t), Include: []string{"article"}}

		err := cmd.Run(deps)

		assert.Equal(t, sitecorpus.ENOTFOUND, sitecorpus.ErrorCode(err))
		assert.Contains(t, stderr.String(), "no text found")
	})

	t.Run("requires an include selector", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
		}

		err := (&main.ExtractCmd{Source: "page.html"}).Run(deps)

		assert.Equal(t, sitecorpus.EINVALID, sitecorpus.ErrorCode(err))
	})

	t.Run("warns about malformed selectors", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    stderr,
			Extractor: goquery.NewExtractor(),
		}

		cmd := &main.ExtractCmd{Source: writePage(t), Include: []string{"h2", "p[["}}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "warning:")
		assert.Equal(t, "Setup\n", stdout.String())
	})

	t.Run("returns error for unreadable file", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
		}

		cmd := &main.ExtractCmd{Source: filepath.Join(t.TempDir(), "missing.html"), Include: []string{"main"}}

		err := cmd.Run(deps)

		assert.Equal(t, sitecorpus.ENOTFOUND, sitecorpus.ErrorCode(err))
	})
}
