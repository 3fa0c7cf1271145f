// Package mcp exposes the search, fetch and subtitle tools over the Model
// Context Protocol.
package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/fwojciec/ssmcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server name and version reported to clients.
const (
	Name    = "ssmcp"
	Version = "0.1.0"
)

// Tool names.
const (
	ToolWebSearch = "web_search"
	ToolWebFetch  = "web_fetch"
	ToolSubtitles = "youtube_get_subtitles"
)

// Descriptions holds the tool and argument descriptions shown to clients.
type Descriptions struct {
	WebSearch      string
	WebSearchQuery string
	WebFetch       string
	WebFetchURL    string
	Subtitles      string
	SubtitlesURL   string
}

// DefaultDescriptions returns the built-in tool descriptions.
func DefaultDescriptions() Descriptions {
	return Descriptions{
		WebSearch: "Perform a web search and return relevant results.\n\n" +
			"Each search result contains:\n" +
			"- url (str): The webpage URL\n" +
			"- content (str): Page content in MD format",
		WebSearchQuery: "Search query or keywords to find relevant web content.",
		WebFetch: "Fetch content from a specified URL.\n\n" +
			"Returns the page content in Markdown format.",
		WebFetchURL:  "The URL to fetch content from",
		Subtitles:    "Get subtitles/captions from a YouTube video and return the text content.",
		SubtitlesURL: "YouTube video URL to get subtitles from",
	}
}

// Server serves the tools backed by the domain services.
type Server struct {
	Searcher  ssmcp.PageSearcher
	Parser    ssmcp.PageParser
	Subtitles ssmcp.SubtitleFetcher

	Descriptions Descriptions
	Logger       *slog.Logger

	// ShutdownTimeout bounds the graceful stop of the HTTP transport.
	ShutdownTimeout time.Duration
}

// MCPServer builds the protocol server with every tool registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer(Name, Version,
		server.WithToolCapabilities(false),
		server.WithToolHandlerMiddleware(s.logCalls),
	)
	s.addTools(srv)
	return srv
}

// ServeStdio serves requests on stdin/stdout until ctx is done or the input
// is closed.
func (s *Server) ServeStdio(ctx context.Context) error {
	stdio := server.NewStdioServer(s.MCPServer())
	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// ServeHTTP serves the streamable HTTP transport on addr until ctx is done.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.MCPServer())

	errCh := make(chan error, 1)
	go func() {
		s.logger().Info("listening", "addr", addr)
		errCh <- httpServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}
