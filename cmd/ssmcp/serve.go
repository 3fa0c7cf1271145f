package main

import (
	"fmt"
	"net"
	"strconv"

	"github.com/fwojciec/ssmcp/mcp"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := &mcp.Server{
		Searcher:     deps.Searcher,
		Parser:       deps.Parser,
		Subtitles:    deps.Subtitles,
		Descriptions: c.descriptions(),
		Logger:       deps.Logger,
	}

	if c.Transport == "stdio" {
		deps.Logger.Info("serving on stdio")
		return srv.ServeStdio(deps.Ctx)
	}

	addr := net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	if err := srv.ServeHTTP(deps.Ctx, addr); err != nil {
		return fmt.Errorf("serving on %s: %w", addr, err)
	}
	return nil
}

// descriptions overlays configured descriptions on the defaults.
func (c *ServeCmd) descriptions() mcp.Descriptions {
	d := mcp.DefaultDescriptions()
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&d.WebSearch, c.WebSearchDesc)
	override(&d.WebSearchQuery, c.WebSearchQueryDesc)
	override(&d.WebFetch, c.WebFetchDesc)
	override(&d.WebFetchURL, c.WebFetchURLDesc)
	override(&d.Subtitles, c.SubtitlesDesc)
	override(&d.SubtitlesURL, c.SubtitlesURLDesc)
	return d
}
