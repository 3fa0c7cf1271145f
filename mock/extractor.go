package mock

import (
	"context"

	"github.com/fwojciec/ssmcp"
)

var _ ssmcp.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of ssmcp.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, target ssmcp.Target) (*ssmcp.ExtractionResult, error)
}

func (e *Extractor) Extract(ctx context.Context, target ssmcp.Target) (*ssmcp.ExtractionResult, error) {
	return e.ExtractFn(ctx, target)
}

var _ ssmcp.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of ssmcp.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, target ssmcp.Target, policy ssmcp.RenderPolicy) (string, error)
	CloseFn  func() error
}

func (r *Renderer) Render(ctx context.Context, target ssmcp.Target, policy ssmcp.RenderPolicy) (string, error) {
	return r.RenderFn(ctx, target, policy)
}

func (r *Renderer) Close() error {
	return r.CloseFn()
}

var _ ssmcp.Cleaner = (*Cleaner)(nil)

// Cleaner is a mock implementation of ssmcp.Cleaner.
type Cleaner struct {
	CleanFn func(html, baseURL string) (string, error)
}

func (c *Cleaner) Clean(html, baseURL string) (string, error) {
	return c.CleanFn(html, baseURL)
}

var _ ssmcp.ArticleExtractor = (*ArticleExtractor)(nil)

// ArticleExtractor is a mock implementation of ssmcp.ArticleExtractor.
type ArticleExtractor struct {
	ExtractArticleFn func(html string) (*ssmcp.Article, error)
}

func (a *ArticleExtractor) ExtractArticle(html string) (*ssmcp.Article, error) {
	return a.ExtractArticleFn(html)
}
