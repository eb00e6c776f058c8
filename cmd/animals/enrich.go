package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	animals "github.com/wilfried-lafaye/scraping-animals-app"
	"github.com/wilfried-lafaye/scraping-animals-app/enrich"
	"github.com/wilfried-lafaye/scraping-animals-app/yaml"
)

// Run executes the enrich command.
func (c *EnrichCmd) Run(deps *Dependencies) error {
	e := &enrich.Enricher{Animals: deps.Animals, Logger: deps.Logger.Warn}

	result, err := e.Backfill(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", animals.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Backfilled %d of %d animals (%d failed)\n", result.Updated, result.Scanned, result.Failed)
	return nil
}

// Run executes the tag command.
func (c *TagCmd) Run(deps *Dependencies) error {
	kw, err := loadKeywords(c.Keywords)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", animals.ErrorMessage(err))
		return err
	}

	tagger := enrich.NewTagger(kw)
	if c.DryRun {
		return c.dryRun(deps, tagger.Keywords)
	}

	e := &enrich.Enricher{Animals: deps.Animals, Logger: deps.Logger.Warn}
	result, err := e.Tag(deps.Ctx, tagger)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", animals.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Tagged %d of %d animals (%d failed)\n", result.Updated, result.Scanned, result.Failed)
	return nil
}

// dryRun prints every category each animal's diet and habitat text
// matches. Only the first match of each is kept when tagging.
func (c *TagCmd) dryRun(deps *Dependencies, kw *animals.Keywords) error {
	list, err := deps.Animals.FindAnimals(deps.Ctx, animals.AnimalFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", animals.ErrorMessage(err))
		return err
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "Diet matches", "Habitat matches"})
	ambiguous := 0
	for _, a := range list {
		diet := kw.Diet.Match(a.Diet)
		habitat := kw.Habitat.Match(a.Habitat)
		if len(diet) > 1 || len(habitat) > 1 {
			ambiguous++
		}
		t.AppendRow(table.Row{a.Name, strings.Join(diet, ", "), strings.Join(habitat, ", ")})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d of %d match several categories, first kept", ambiguous, len(list))})
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	fmt.Fprintln(deps.Stdout, t.Render())
	return nil
}

// Run executes the keywords command.
func (c *KeywordsCmd) Run(deps *Dependencies) error {
	return yaml.WriteKeywords(deps.Stdout, animals.DefaultKeywords())
}

// loadKeywords reads the keyword file at path, or returns nil for the
// built-in maps when path is empty.
func loadKeywords(path string) (*animals.Keywords, error) {
	if path == "" {
		return nil, nil
	}
	return yaml.LoadKeywords(path)
}
