package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/ssmcp"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	pages, err := deps.Searcher.SearchPages(deps.Ctx, c.Query, nil)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ssmcp.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pages)
	}

	if len(pages) == 0 {
		fmt.Fprintln(deps.Stderr, "no results")
		return nil
	}
	for i, p := range pages {
		if i > 0 {
			fmt.Fprintln(deps.Stdout)
		}
		fmt.Fprintf(deps.Stdout, "<!-- %s -->\n%s\n", p.URL, p.Content)
	}
	return nil
}
