package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := animals.AnimalFilter{
		NameContains: c.Query,
		Habitats:     c.Habitats,
		Diets:        c.Diets,
		Statuses:     c.Statuses,
		Limit:        c.Limit,
	}

	list, err := deps.Animals.FindAnimals(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", animals.ErrorMessage(err))
		return err
	}

	if len(list) == 0 {
		fmt.Fprintln(deps.Stdout, "No animals found. Use 'animals crawl' or 'animals import' to add some.")
		return nil
	}

	total, err := deps.Animals.CountAnimals(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", animals.ErrorMessage(err))
		return err
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "Scientific name", "Habitat", "Diet", "Status"})
	for _, a := range list {
		t.AppendRow(table.Row{a.Name, a.ScientificName, a.HabitatLabel(), a.DietLabel(), a.ConservationStatus})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d of %d", len(list), total)})
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	fmt.Fprintln(deps.Stdout, t.Render())

	return nil
}
