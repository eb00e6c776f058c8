package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	animals "github.com/wilfried-lafaye/scraping-animals-app"
	animalshttp "github.com/wilfried-lafaye/scraping-animals-app/http"
	"github.com/wilfried-lafaye/scraping-animals-app/rod"
	animalslog "github.com/wilfried-lafaye/scraping-animals-app/slog"
	"github.com/wilfried-lafaye/scraping-animals-app/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by the store. Opened by Run.
	DB *sqlite.DB

	// Services for end-to-end testing. When set, Run uses them instead of
	// opening the database or starting a fetcher.
	Animals animals.AnimalService
	Fetcher animals.Fetcher
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
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
		kong.Name("animals"),
		kong.Description("Scrape, store, enrich and browse animal profiles."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars{"default_db": defaultDBPath()},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'animals --help' to see available commands")
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

	logger := newLogger(stderr, cli.LogLevel, cli.LogJSON)
	deps.Logger = logger

	// Open the store unless the command runs without it.
	if cmd != "keywords" && !(cmd == "crawl" && cli.Crawl.NoStore) {
		svc := m.Animals
		if svc == nil {
			if err := os.MkdirAll(filepath.Dir(cli.DB), 0755); err != nil {
				fmt.Fprintf(stderr, "Hint: Set ANIMALS_DB to use a different database path\n")
				return fmt.Errorf("failed to create database directory: %w", err)
			}
			m.DB = sqlite.NewDB(cli.DB, cli.Collection)
			if err := m.DB.Open(); err != nil {
				fmt.Fprintf(stderr, "Hint: Set ANIMALS_DB to use a different database path\n")
				return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
			}
			defer m.Close()
			svc = sqlite.NewAnimalService(m.DB)
		}
		deps.Animals = animalslog.NewLoggingAnimalService(svc, logger)
	}

	if cmd == "crawl" {
		fetcher := m.Fetcher
		if fetcher == nil {
			if fetcher, err = newFetcher(&cli.Crawl); err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed to use --browser")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			defer fetcher.Close()
		}
		deps.Fetcher = animalslog.NewLoggingFetcher(fetcher, logger)
	}

	return kongCtx.Run(deps)
}

// newFetcher returns the fetcher selected by the crawl flags.
func newFetcher(c *CrawlCmd) (animals.Fetcher, error) {
	if c.Browser {
		return rod.NewFetcher(rod.WithFetchTimeout(c.Timeout), rod.WithHeadless(!c.ShowBrowser))
	}
	opts := []animalshttp.Option{animalshttp.WithTimeout(c.Timeout)}
	if c.UserAgent != "" {
		opts = append(opts, animalshttp.WithUserAgent(c.UserAgent))
	}
	return animalshttp.NewFetcher(opts...), nil
}

// newLogger returns a text or JSON logger writing to w at the named level.
func newLogger(w io.Writer, level string, json bool) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "animals_db.sqlite"
	}
	return filepath.Join(home, ".animals", "animals_db.sqlite")
}
