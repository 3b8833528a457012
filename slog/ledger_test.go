package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/mock"
	sclog "github.com/fwojciec/sitecorpus/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingLedger(t *testing.T) {
	t.Parallel()

	newLedger := func(buf *bytes.Buffer, level slog.Level) *sclog.LoggingLedger {
		logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level}))
		inner := &mock.LedgerService{
			FindPagesFn: func(ctx context.Context, site string) ([]*sitecorpus.LedgerPage, error) {
				return []*sitecorpus.LedgerPage{{Site: site, URL: "u", Status: sitecorpus.StatusOK}}, nil
			},
			UpsertPageFn: func(ctx context.Context, page *sitecorpus.LedgerPage) error { return nil },
			CreateRunFn: func(ctx context.Context, run *sitecorpus.Run) error {
				run.ID = "run-1"
				return nil
			},
			FinishRunFn: func(ctx context.Context, run *sitecorpus.Run) error { return nil },
		}
		return sclog.NewLoggingLedger(inner, logger)
	}

	t.Run("logs page lookups", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		pages, err := newLedger(&buf, slog.LevelInfo).FindPages(context.Background(), "docs")

		require.NoError(t, err)
		assert.Len(t, pages, 1)
		assert.Contains(t, buf.String(), "ledger find pages")
		assert.Contains(t, buf.String(), "count=1")
	})

	t.Run("logs page writes at debug level", func(t *testing.T) {
		t.Parallel()

		page := &sitecorpus.LedgerPage{Site: "docs", URL: "u", Status: sitecorpus.StatusEmpty}

		var quiet bytes.Buffer
		require.NoError(t, newLedger(&quiet, slog.LevelInfo).UpsertPage(context.Background(), page))
		assert.Empty(t, quiet.String())

		var verbose bytes.Buffer
		require.NoError(t, newLedger(&verbose, slog.LevelDebug).UpsertPage(context.Background(), page))
		assert.Contains(t, verbose.String(), "ledger upsert page")
		assert.Contains(t, verbose.String(), "status=empty")
	})

	t.Run("logs run lifecycle", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		ledger := newLedger(&buf, slog.LevelInfo)
		run := &sitecorpus.Run{Site: "docs"}

		require.NoError(t, ledger.CreateRun(context.Background(), run))
		run.Saved = 4
		require.NoError(t, ledger.FinishRun(context.Background(), run))

		output := buf.String()
		assert.Contains(t, output, "run started")
		assert.Contains(t, output, "run=run-1")
		assert.Contains(t, output, "run finished")
		assert.Contains(t, output, "saved=4")
	})
}
