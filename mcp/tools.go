package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/ssmcp"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (s *Server) addTools(srv *server.MCPServer) {
	d := s.Descriptions
	if d == (Descriptions{}) {
		d = DefaultDescriptions()
	}

	srv.AddTool(
		mcp.NewTool(ToolWebSearch,
			mcp.WithDescription(d.WebSearch),
			mcp.WithString("query", mcp.Required(), mcp.Description(d.WebSearchQuery)),
		),
		s.HandleWebSearch,
	)
	srv.AddTool(
		mcp.NewTool(ToolWebFetch,
			mcp.WithDescription(d.WebFetch),
			mcp.WithString("url", mcp.Required(), mcp.Description(d.WebFetchURL)),
		),
		s.HandleWebFetch,
	)
	srv.AddTool(
		mcp.NewTool(ToolSubtitles,
			mcp.WithDescription(d.Subtitles),
			mcp.WithString("url", mcp.Required(), mcp.Description(d.SubtitlesURL)),
		),
		s.HandleSubtitles,
	)
}

// HandleWebSearch searches the web and returns the result pages as a JSON
// array of {url, content} objects.
func (s *Server) HandleWebSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pages, err := s.Searcher.SearchPages(ctx, query, progressNotifier(ctx, req))
	if err != nil {
		return toolError(err)
	}

	data, err := json.Marshal(pages)
	if err != nil {
		return nil, fmt.Errorf("encoding search results: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// HandleWebFetch returns the Markdown of one page.
func (s *Server) HandleWebFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	url = strings.TrimSpace(url)

	contents, err := s.Parser.ParsePages(ctx, []string{url}, progressNotifier(ctx, req))
	if err != nil {
		return toolError(err)
	}

	md, ok := contents[url]
	if !ok {
		return toolError(ssmcp.Errorf(ssmcp.EEXTRACT, "no content could be extracted from %s", url))
	}
	return mcp.NewToolResultText(md), nil
}

// HandleSubtitles returns the transcript of a video.
func (s *Server) HandleSubtitles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := s.Subtitles.Subtitles(ctx, strings.TrimSpace(url))
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(text), nil
}

// toolError reports application errors to the client as "<code>: <message>"
// tool errors. Anything else is returned as a protocol error.
func toolError(err error) (*mcp.CallToolResult, error) {
	var e *ssmcp.Error
	if errors.As(err, &e) {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", e.Code, e.Message)), nil
	}
	return nil, err
}
