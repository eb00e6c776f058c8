package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Animals animals.AnimalService
	Fetcher animals.Fetcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB         string `name:"db" env:"ANIMALS_DB" default:"${default_db}" help:"SQLite database path"`
	Collection string `env:"ANIMALS_COLLECTION" default:"animals" help:"Table the animals are stored in"`
	LogLevel   string `env:"ANIMALS_LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
	LogJSON    bool   `name:"log-json" env:"ANIMALS_LOG_JSON" help:"Log as JSON"`

	Crawl    CrawlCmd    `cmd:"" help:"Crawl animal profiles into the store"`
	Import   ImportCmd   `cmd:"" help:"Replace the stored animals with a JSON file"`
	Export   ExportCmd   `cmd:"" help:"Export stored animals as JSON or CSV"`
	Enrich   EnrichCmd   `cmd:"" help:"Backfill habitat, diet and status from the facts table"`
	Tag      TagCmd      `cmd:"" help:"Tag animals with diet and habitat categories"`
	Keywords KeywordsCmd `cmd:"" help:"Print the keyword maps as YAML"`
	List     ListCmd     `cmd:"" help:"List stored animals"`
	Serve    ServeCmd    `cmd:"" help:"Serve the dashboard over HTTP"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	StartURL    string        `name:"start-url" env:"ANIMALS_START_URL" default:"https://a-z-animals.com/animals/" help:"Index page to start from"`
	PerLetter   int           `env:"ANIMALS_PER_LETTER" default:"10" help:"Detail pages per letter (0 for all)"`
	Delay       time.Duration `env:"ANIMALS_DELAY" default:"1s" help:"Minimum delay between requests to the site"`
	Concurrency int           `short:"c" env:"ANIMALS_CONCURRENCY" default:"1" help:"Pages fetched in parallel"`
	Timeout     time.Duration `default:"10s" help:"Per-page fetch timeout"`
	Output      string        `short:"o" env:"ANIMALS_OUTPUT" type:"path" help:"Also write crawled animals to this JSON file"`
	NoStore     bool          `help:"Do not write to the database (requires --output)"`
	Browser     bool          `help:"Fetch pages with a headless browser"`
	ShowBrowser bool          `help:"Show the browser window (with --browser)"`
	UserAgent   string        `help:"User-Agent header for plain HTTP fetches"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	File  string `arg:"" type:"existingfile" help:"JSON file to import"`
	Merge bool   `help:"Upsert into the existing animals instead of replacing them"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	File    string   `arg:"" type:"path" help:"File to write"`
	Format  string   `short:"f" default:"json" enum:"json,csv" help:"Output format (json, csv)"`
	Columns []string `help:"CSV columns, in order (default name,scientific_name,habitat,diet,conservation_status)"`
}

// EnrichCmd is the "enrich" subcommand.
type EnrichCmd struct{}

// TagCmd is the "tag" subcommand.
type TagCmd struct {
	Keywords string `env:"ANIMALS_KEYWORDS" type:"path" help:"YAML keyword file (default built-in maps)"`
	DryRun   bool   `help:"List every matching category instead of writing tags"`
}

// KeywordsCmd is the "keywords" subcommand.
type KeywordsCmd struct{}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Query    string   `short:"q" help:"Case-insensitive name substring"`
	Habitats []string `name:"habitat" help:"Habitat to include (repeatable)"`
	Diets    []string `name:"diet" help:"Diet to include (repeatable)"`
	Statuses []string `name:"status" help:"Conservation status to include (repeatable)"`
	Limit    int      `short:"n" default:"200" help:"Maximum animals to show (0 for all)"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `env:"ANIMALS_ADDR" default:":8501" help:"Listen address"`
}
