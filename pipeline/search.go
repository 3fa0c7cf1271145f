package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fwojciec/ssmcp"
	"github.com/fwojciec/ssmcp/bloom"
	"golang.org/x/sync/errgroup"
)

// Ensure SearchService implements ssmcp.PageSearcher at compile time.
var _ ssmcp.PageSearcher = (*SearchService)(nil)

// DefaultMaxResults is the number of result pages fetched per search.
const DefaultMaxResults = 5

// SearchService searches the web and returns the Markdown of the top
// results, optionally condensed by a Summarizer.
type SearchService struct {
	Searcher   ssmcp.Searcher
	Parser     ssmcp.PageParser
	Summarizer ssmcp.Summarizer
	MaxResults int
	Logger     *slog.Logger
}

// SearchPages runs query and returns the processed pages in search order.
// Returns EINVALID for an empty query.
func (s *SearchService) SearchPages(ctx context.Context, query string, progress ssmcp.ProgressFunc) ([]ssmcp.PageContent, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ssmcp.Errorf(ssmcp.EINVALID, "search query is required")
	}

	results, err := s.Searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	urls := s.topURLs(results)
	if len(urls) == 0 {
		return []ssmcp.PageContent{}, nil
	}

	contents, err := s.Parser.ParsePages(ctx, urls, progress)
	if err != nil {
		return nil, err
	}

	pages := make([]ssmcp.PageContent, 0, len(contents))
	for _, u := range urls {
		if md, ok := contents[u]; ok {
			pages = append(pages, ssmcp.PageContent{URL: u, Content: md})
		}
	}

	if s.Summarizer == nil {
		return pages, nil
	}
	return s.summarize(ctx, query, pages)
}

// topURLs returns the first MaxResults distinct result URLs.
func (s *SearchService) topURLs(results []ssmcp.SearchResult) []string {
	limit := s.MaxResults
	if limit <= 0 {
		limit = DefaultMaxResults
	}

	seen := bloom.NewFilter(uint(len(results)), 0.0001)
	var urls []string
	for _, r := range results {
		if len(urls) == limit {
			break
		}
		if r.URL == "" || seen.Seen(r.URL) {
			continue
		}
		urls = append(urls, r.URL)
	}
	return urls
}

// summarize replaces each page's content with its summary. Pages whose
// summary fails or comes back empty are dropped.
func (s *SearchService) summarize(ctx context.Context, query string, pages []ssmcp.PageContent) ([]ssmcp.PageContent, error) {
	logger := loggerOrDiscard(s.Logger)
	summaries := make([]string, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	for i, page := range pages {
		g.Go(func() error {
			summary, err := s.Summarizer.Summarize(gctx, query, page.Content)
			if err != nil {
				logger.Warn("dropping page without summary", "url", page.URL, "err", err)
				return nil
			}
			summaries[i] = strings.TrimSpace(summary)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]ssmcp.PageContent, 0, len(pages))
	for i, page := range pages {
		if summaries[i] == "" {
			continue
		}
		out = append(out, ssmcp.PageContent{URL: page.URL, Content: summaries[i]})
	}
	return out, nil
}
