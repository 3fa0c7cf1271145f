// Package pipeline turns URLs into Markdown. It owns the browser-session
// pool, the extraction adapter, the filter chain and the concurrent batch
// orchestrator, plus the search flow built on top of them.
package pipeline

import (
	"io"
	"log/slog"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return discardLogger
	}
	return l
}
