package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ssmcp"
)

// Ensure LoggingSearcher implements ssmcp.Searcher.
var _ ssmcp.Searcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a Searcher with logging.
type LoggingSearcher struct {
	next   ssmcp.Searcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next ssmcp.Searcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped searcher and logs the operation.
func (s *LoggingSearcher) Search(ctx context.Context, query string) (results []ssmcp.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"query", query,
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query)
}

// Ensure LoggingSummarizer implements ssmcp.Summarizer.
var _ ssmcp.Summarizer = (*LoggingSummarizer)(nil)

// LoggingSummarizer wraps a Summarizer with debug logging.
type LoggingSummarizer struct {
	next   ssmcp.Summarizer
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next ssmcp.Summarizer, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, logger: logger}
}

// Summarize delegates to the wrapped summarizer and logs the operation.
func (s *LoggingSummarizer) Summarize(ctx context.Context, query, content string) (summary string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("summarize",
			"query", query,
			"content_bytes", len(content),
			"summary_bytes", len(summary),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Summarize(ctx, query, content)
}
