package main

import (
	"fmt"

	"github.com/fwojciec/ssmcp"
)

// Run executes the subtitles command.
func (c *SubtitlesCmd) Run(deps *Dependencies) error {
	text, err := deps.Subtitles.Subtitles(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ssmcp.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, text)
	return nil
}
