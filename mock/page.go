package mock

import (
	"context"

	"github.com/fwojciec/ssmcp"
)

var _ ssmcp.PageParser = (*PageParser)(nil)

// PageParser is a mock implementation of ssmcp.PageParser.
type PageParser struct {
	ParsePagesFn func(ctx context.Context, urls []string, progress ssmcp.ProgressFunc) (map[string]string, error)
}

func (p *PageParser) ParsePages(ctx context.Context, urls []string, progress ssmcp.ProgressFunc) (map[string]string, error) {
	return p.ParsePagesFn(ctx, urls, progress)
}

var _ ssmcp.RenderLimiter = (*RenderLimiter)(nil)

// RenderLimiter is a mock implementation of ssmcp.RenderLimiter.
type RenderLimiter struct {
	WaitFn func(ctx context.Context, target ssmcp.Target) error
}

func (l *RenderLimiter) Wait(ctx context.Context, target ssmcp.Target) error {
	return l.WaitFn(ctx, target)
}
