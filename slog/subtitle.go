package slog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/ssmcp"
)

// Ensure LoggingSubtitleFetcher implements ssmcp.SubtitleFetcher.
var _ ssmcp.SubtitleFetcher = (*LoggingSubtitleFetcher)(nil)

// LoggingSubtitleFetcher wraps a SubtitleFetcher with logging.
type LoggingSubtitleFetcher struct {
	next   ssmcp.SubtitleFetcher
	logger *slog.Logger
}

// NewLoggingSubtitleFetcher creates a new LoggingSubtitleFetcher.
func NewLoggingSubtitleFetcher(next ssmcp.SubtitleFetcher, logger *slog.Logger) *LoggingSubtitleFetcher {
	return &LoggingSubtitleFetcher{next: next, logger: logger}
}

// Subtitles delegates to the wrapped fetcher and logs the operation.
func (f *LoggingSubtitleFetcher) Subtitles(ctx context.Context, url string) (text string, err error) {
	defer func(begin time.Time) {
		lines := 0
		if text != "" {
			lines = strings.Count(text, "\n") + 1
		}
		f.logger.Info("subtitles",
			"url", url,
			"lines", lines,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Subtitles(ctx, url)
}
