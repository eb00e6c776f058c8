package main

import (
	"bytes"
	"fmt"
	"os"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
	"github.com/wilfried-lafaye/scraping-animals-app/fs"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	list, err := fs.ReadAnimals(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", animals.ErrorMessage(err))
		return err
	}

	if !c.Merge {
		n, err := deps.Animals.ReplaceAll(deps.Ctx, list)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", animals.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Imported %d animals from %s\n", n, c.File)
		return nil
	}

	counts := make(map[animals.UpsertResult]int)
	for _, a := range list {
		res, err := deps.Animals.Upsert(deps.Ctx, a)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", a.Name, animals.ErrorMessage(err))
			return err
		}
		counts[res]++
	}
	fmt.Fprintf(deps.Stdout, "Merged %d animals from %s (%d new, %d updated, %d unchanged)\n",
		len(list), c.File, counts[animals.UpsertInserted], counts[animals.UpsertUpdated], counts[animals.UpsertUnchanged])
	return nil
}

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	fields, err := animals.ParseFields(c.Columns)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", animals.ErrorMessage(err))
		return err
	}

	list, err := deps.Animals.FindAnimals(deps.Ctx, animals.AnimalFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", animals.ErrorMessage(err))
		return err
	}

	switch c.Format {
	case "csv":
		var buf bytes.Buffer
		if err = fs.EncodeCSV(&buf, list, fields); err == nil {
			err = os.WriteFile(c.File, buf.Bytes(), 0644)
		}
	default:
		err = fs.WriteAnimals(c.File, list)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: writing %s: %v\n", c.File, err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d animals to %s\n", len(list), c.File)
	return nil
}
