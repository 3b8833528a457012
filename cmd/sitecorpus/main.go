package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/fs"
	"github.com/fwojciec/sitecorpus/gemini"
	"github.com/fwojciec/sitecorpus/goquery"
	"github.com/fwojciec/sitecorpus/harvest"
	schttp "github.com/fwojciec/sitecorpus/http"
	sclog "github.com/fwojciec/sitecorpus/slog"
	"github.com/fwojciec/sitecorpus/sqlite"
	scyaml "github.com/fwojciec/sitecorpus/yaml"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// DefaultDBName is the ledger file created in the output directory when
// SITECORPUS_DB is not set.
const DefaultDBName = "ledger.db"

// UnitsDirName is the directory under the output directory holding units.
const UnitsDirName = "units"

// Main represents the program.
type Main struct {
	// Database path. Empty means DefaultDBName inside the output directory.
	DBPath string

	// SQLite database used by the ledger.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: os.Getenv("SITECORPUS_DB"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitecorpus"),
		kong.Description("Harvest website text into an LLM-ready corpus"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitecorpus --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	if cli.Verbose {
		deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	// extract works without a configuration file unless a site is named.
	if cmd != "extract" || cli.Extract.Site != "" {
		cfg, err := scyaml.LoadConfig(cli.Config)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Set SITECORPUS_CONFIG or pass --config to use a different configuration file")
			return fmt.Errorf("failed to load config %q: %w", cli.Config, err)
		}
		deps.Config = cfg
	}

	if cmd == "run" || cmd == "status" {
		if err := m.openLedger(deps, stderr); err != nil {
			return err
		}
		defer m.Close()
	}

	if cmd == "run" || cmd == "extract" {
		fetcher := schttp.NewFetcher(fetchOptions(deps.Config)...)
		defer fetcher.Close()

		deps.Fetcher = fetcher
		deps.Extractor = goquery.NewExtractor()
		var sitemaps sitecorpus.SitemapService = schttp.NewSitemapService(fetcher.Client(), fetcher.UserAgent())
		if deps.Logger != nil {
			deps.Fetcher = sclog.NewLoggingFetcher(deps.Fetcher, deps.Logger)
			deps.Extractor = sclog.NewLoggingExtractor(deps.Extractor, deps.Logger)
			sitemaps = sclog.NewLoggingSitemapService(sitemaps, deps.Logger)
		}

		if cmd == "run" {
			deps.Harvester = &harvest.Harvester{
				Sitemaps:    sitemaps,
				Fetcher:     deps.Fetcher,
				Extractor:   deps.Extractor,
				Ledger:      deps.Ledger,
				Units:       fs.NewUnitStore(filepath.Join(deps.Config.OutputDir, UnitsDirName)),
				RateLimiter: harvest.NewIntervalLimiter(deps.Config.Fetch.Interval),
				Concurrency: deps.Config.Fetch.Concurrency,
				MaxPages:    deps.Config.Fetch.MaxPages,
				Logger:      deps.Logger,
			}
		}
	}

	if cmd == "run" || cmd == "build" {
		deps.Builder = &harvest.Builder{
			Units:  fs.NewUnitStore(filepath.Join(deps.Config.OutputDir, UnitsDirName)),
			Writer: fs.NewCorpusWriter(deps.Config.OutputDir),
		}
		if cli.Run.Tokens || cli.Build.Tokens {
			tokenCounter, err := gemini.NewTokenCounter(gemini.DefaultModel)
			if err != nil {
				return fmt.Errorf("failed to create token counter: %w", err)
			}
			deps.Builder.TokenCounter = tokenCounter
		}
	}

	return kongCtx.Run(deps)
}

// openLedger opens the SQLite ledger and wires it into deps.
func (m *Main) openLedger(deps *Dependencies, stderr io.Writer) error {
	path := m.DBPath
	if path == "" {
		if err := os.MkdirAll(deps.Config.OutputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		path = filepath.Join(deps.Config.OutputDir, DefaultDBName)
	}

	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintln(stderr, "Hint: Set SITECORPUS_DB to use a different database path")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}

	deps.Ledger = sqlite.NewLedgerService(m.DB)
	if deps.Logger != nil {
		deps.Ledger = sclog.NewLoggingLedger(deps.Ledger, deps.Logger)
	}
	return nil
}

func fetchOptions(cfg *sitecorpus.Config) []schttp.Option {
	if cfg == nil {
		return nil
	}
	var opts []schttp.Option
	if cfg.Fetch.UserAgent != "" {
		opts = append(opts, schttp.WithUserAgent(cfg.Fetch.UserAgent))
	}
	if cfg.Fetch.Timeout > 0 {
		opts = append(opts, schttp.WithTimeout(cfg.Fetch.Timeout))
	}
	return opts
}
