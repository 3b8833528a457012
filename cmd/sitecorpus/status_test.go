package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/sitecorpus"
	main "github.com/fwojciec/sitecorpus/cmd/sitecorpus"
	"github.com/fwojciec/sitecorpus/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCmd_Run(t *testing.T) {
	t.Parallel()

	config := &sitecorpus.Config{
		Sites: []*sitecorpus.Site{{Name: "docs"}, {Name: "blog"}},
	}

	t.Run("shows page counts and last run per site", func(t *testing.T) {
		t.Parallel()

		ledger := &mock.LedgerService{
			FindPagesFn: func(_ context.Context, site string) ([]*sitecorpus.LedgerPage, error) {
				if site == "blog" {
					return []*sitecorpus.LedgerPage{}, nil
				}
				return []*sitecorpus.LedgerPage{
					{URL: "https://example.com/a", Status: sitecorpus.StatusOK},
					{URL: "https://example.com/b", Status: sitecorpus.StatusOK},
					{URL: "https://example.com/c", Status: sitecorpus.StatusFailed},
				}, nil
			},
			FindLastRunFn: func(_ context.Context, site string) (*sitecorpus.Run, error) {
				if site == "blog" {
					return nil, sitecorpus.Errorf(sitecorpus.ENOTFOUND, "no runs")
				}
				return &sitecorpus.Run{
					StartedAt:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
					FinishedAt: time.Date(2025, 3, 1, 12, 1, 0, 0, time.UTC),
					Added:      3,
					Saved:      2,
					Failed:     1,
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Config: config,
			Ledger: ledger,
		}

		err := (&main.StatusCmd{}).Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "docs: 3 pages (2 ok, 0 empty, 1 failed)")
		assert.Contains(t, output, "last run 2025-03-01 12:00:00: 3 added, 0 modified, 0 removed, 2 saved, 0 empty, 1 failed")
		assert.Contains(t, output, "blog: 0 pages")
		assert.Contains(t, output, "never harvested")
		assert.NotContains(t, output, "did not finish")
	})

	t.Run("returns ledger errors", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("database is locked")
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Config: config,
			Ledger: &mock.LedgerService{
				FindPagesFn: func(_ context.Context, _ string) ([]*sitecorpus.LedgerPage, error) {
					return nil, dbErr
				},
			},
		}

		err := (&main.StatusCmd{}).Run(deps)

		assert.Equal(t, dbErr, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}
