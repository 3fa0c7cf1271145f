package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ssmcp"
)

// Ensure LoggingRenderer implements ssmcp.Renderer.
var _ ssmcp.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with debug logging.
type LoggingRenderer struct {
	next   ssmcp.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next ssmcp.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render delegates to the wrapped renderer and logs the operation.
func (r *LoggingRenderer) Render(ctx context.Context, target ssmcp.Target, policy ssmcp.RenderPolicy) (html string, err error) {
	defer func(begin time.Time) {
		r.logger.Debug("render",
			"target", target.String(),
			"wait", policy.WaitUntil,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, target, policy)
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}
