package main

import (
	"fmt"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
	"github.com/wilfried-lafaye/scraping-animals-app/crawl"
	"github.com/wilfried-lafaye/scraping-animals-app/fs"
	"github.com/wilfried-lafaye/scraping-animals-app/goquery"
	"github.com/wilfried-lafaye/scraping-animals-app/htmltomarkdown"
	animalslog "github.com/wilfried-lafaye/scraping-animals-app/slog"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	if c.NoStore && c.Output == "" {
		err := animals.Errorf(animals.EINVALID, "--no-store requires --output")
		fmt.Fprintf(deps.Stderr, "error: %s\n", animals.ErrorMessage(err))
		return err
	}

	parser := goquery.NewParser(htmltomarkdown.NewConverter())
	parser.PerLetter = c.PerLetter

	crawler := &crawl.Crawler{
		Fetcher:     deps.Fetcher,
		Parser:      animalslog.NewLoggingParser(parser, deps.Logger),
		RateLimiter: crawl.NewDomainLimiter(c.Delay),
		Concurrency: c.Concurrency,
		Logger:      deps.Logger.Warn,
	}
	if !c.NoStore {
		crawler.Store = deps.Animals
	}

	var feed *fs.Feed
	if c.Output != "" {
		feed = fs.NewFeed(c.Output)
		crawler.Feed = feed
	}

	progress := func(event crawl.ProgressEvent) {
		if line := crawl.FormatEvent(event); line != "" {
			fmt.Fprintln(deps.Stdout, line)
		}
	}

	result, err := crawler.Crawl(deps.Ctx, c.StartURL, progress)

	// A partial crawl still commits what it collected.
	if feed != nil && result != nil {
		if ferr := feed.Commit(); ferr != nil {
			fmt.Fprintf(deps.Stderr, "error: writing %s: %v\n", feed.Path(), ferr)
			if err == nil {
				err = ferr
			}
		} else {
			fmt.Fprintf(deps.Stdout, "Wrote %d animals to %s\n", feed.Len(), feed.Path())
		}
	}
	if result != nil {
		fmt.Fprintln(deps.Stdout, result.Summary())
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %s\n", animals.ErrorMessage(err))
		return err
	}
	return nil
}
