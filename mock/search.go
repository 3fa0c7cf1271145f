package mock

import (
	"context"

	"github.com/fwojciec/ssmcp"
)

var _ ssmcp.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of ssmcp.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string) ([]ssmcp.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, query string) ([]ssmcp.SearchResult, error) {
	return s.SearchFn(ctx, query)
}

var _ ssmcp.Summarizer = (*Summarizer)(nil)

// Summarizer is a mock implementation of ssmcp.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, query, content string) (string, error)
}

func (s *Summarizer) Summarize(ctx context.Context, query, content string) (string, error) {
	return s.SummarizeFn(ctx, query, content)
}

var _ ssmcp.PageSearcher = (*PageSearcher)(nil)

// PageSearcher is a mock implementation of ssmcp.PageSearcher.
type PageSearcher struct {
	SearchPagesFn func(ctx context.Context, query string, progress ssmcp.ProgressFunc) ([]ssmcp.PageContent, error)
}

func (s *PageSearcher) SearchPages(ctx context.Context, query string, progress ssmcp.ProgressFunc) ([]ssmcp.PageContent, error) {
	return s.SearchPagesFn(ctx, query, progress)
}
