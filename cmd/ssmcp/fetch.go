package main

import (
	"fmt"

	"github.com/fwojciec/ssmcp"
	"github.com/fwojciec/ssmcp/fs"
)

// Run executes the fetch command. Pages are printed in argument order, or
// written to the output directory; pages that could not be processed are
// reported on stderr.
func (c *FetchCmd) Run(deps *Dependencies) error {
	progress := func(p ssmcp.Progress) {
		if p.URL != "" {
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s\n", p.Completed, p.Total, p.URL)
		}
	}

	contents, err := deps.Parser.ParsePages(deps.Ctx, c.URLs, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ssmcp.ErrorMessage(err))
		return err
	}

	var writer *fs.Writer
	if c.Output != "" {
		writer = fs.NewWriter(c.Output)
	}

	var failed, printed int
	for _, u := range c.URLs {
		md, ok := contents[u]
		if !ok {
			failed++
			fmt.Fprintf(deps.Stderr, "error: no content could be extracted from %s\n", u)
			continue
		}

		if writer != nil {
			if err := writer.WritePage(deps.Ctx, ssmcp.PageContent{URL: u, Content: md}); err != nil {
				return fmt.Errorf("writing %s: %w", u, err)
			}
			path, _ := writer.Path(u)
			fmt.Fprintf(deps.Stdout, "%s\n", path)
			continue
		}

		if len(c.URLs) > 1 {
			if printed > 0 {
				fmt.Fprintln(deps.Stdout)
			}
			fmt.Fprintf(deps.Stdout, "<!-- %s -->\n", u)
		}
		fmt.Fprintln(deps.Stdout, md)
		printed++
	}

	if failed > 0 {
		return ssmcp.Errorf(ssmcp.EEXTRACT, "%d of %d pages failed", failed, len(c.URLs))
	}
	return nil
}
