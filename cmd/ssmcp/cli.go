package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/ssmcp"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Parser    ssmcp.PageParser
	Searcher  ssmcp.PageSearcher
	Subtitles ssmcp.SubtitleFetcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config `embed:""`

	Serve     ServeCmd     `cmd:"" help:"Serve the tools over the Model Context Protocol"`
	Fetch     FetchCmd     `cmd:"" help:"Fetch pages and print their Markdown"`
	Search    SearchCmd    `cmd:"" help:"Search the web and print the result pages"`
	Subtitles SubtitlesCmd `cmd:"" help:"Print the subtitles of a video"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Transport string `enum:"stdio,http" default:"http" env:"SSMCP_TRANSPORT" help:"Transport (stdio, http)"`
	Host      string `default:"0.0.0.0" env:"HOST" help:"HTTP listen host"`
	Port      int    `default:"8000" env:"PORT" help:"HTTP listen port"`

	WebSearchDesc      string `name:"web-search-desc" env:"TOOL_WEB_SEARCH_DESC" help:"web_search tool description"`
	WebSearchQueryDesc string `name:"web-search-query-desc" env:"ARG_WEB_SEARCH_QUERY_DESC" help:"web_search query description"`
	WebFetchDesc       string `name:"web-fetch-desc" env:"TOOL_WEB_FETCH_DESC" help:"web_fetch tool description"`
	WebFetchURLDesc    string `name:"web-fetch-url-desc" env:"ARG_WEB_FETCH_URL_DESC" help:"web_fetch url description"`
	SubtitlesDesc      string `name:"subtitles-desc" env:"TOOL_YOUTUBE_GET_SUBTITLES_DESC" help:"youtube_get_subtitles tool description"`
	SubtitlesURLDesc   string `name:"subtitles-url-desc" env:"ARG_YOUTUBE_GET_SUBTITLES_URL_DESC" help:"youtube_get_subtitles url description"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URLs   []string `arg:"" name:"url" help:"Page URLs"`
	Output string   `short:"o" type:"path" help:"Write pages as Markdown files under this directory instead of printing them"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Search query"`
	JSON  bool   `name:"json" help:"Print results as JSON"`
}

// SubtitlesCmd is the "subtitles" subcommand.
type SubtitlesCmd struct {
	URL string `arg:"" help:"Video URL"`
}
