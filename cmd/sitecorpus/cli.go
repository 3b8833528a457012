package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/harvest"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Config    *sitecorpus.Config
	Ledger    sitecorpus.LedgerService
	Fetcher   sitecorpus.Fetcher
	Extractor sitecorpus.TextExtractor
	Harvester *harvest.Harvester
	Builder   *harvest.Builder
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" env:"SITECORPUS_CONFIG" default:"sitecorpus.yaml" help:"Configuration file"`
	Verbose bool   `short:"v" help:"Log fetches, sitemap reads and ledger writes to stderr"`

	Run      RunCmd      `cmd:"" help:"Harvest changed pages and rebuild the corpus"`
	Build    BuildCmd    `cmd:"" help:"Rebuild the corpus from stored pages"`
	Validate ValidateCmd `cmd:"" help:"Check the configuration and site selectors"`
	Extract  ExtractCmd  `cmd:"" help:"Extract text from one HTML file or URL"`
	Status   StatusCmd   `cmd:"" help:"Show ledger state per site"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Site    []string `short:"s" help:"Harvest only the named site (repeatable)"`
	NoBuild bool     `help:"Skip rebuilding the corpus"`
	Tokens  bool     `short:"t" help:"Estimate Gemini tokens per part"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Tokens bool `short:"t" help:"Estimate Gemini tokens per part"`
}

// ValidateCmd is the "validate" subcommand.
type ValidateCmd struct{}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Source        string   `arg:"" help:"HTML file path or http(s) URL"`
	Site          string   `help:"Use the selectors of a configured site"`
	Include       []string `short:"i" help:"CSS selector of content to keep (repeatable)"`
	Exclude       []string `short:"x" help:"CSS selector of content to drop (repeatable)"`
	FlattenTables bool     `help:"Render tables as 'header: value' lines"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct{}
