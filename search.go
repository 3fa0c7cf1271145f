package ssmcp

import "context"

// SearchResult is a single hit returned by a search backend.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher queries a web search backend.
type Searcher interface {
	// Search returns results for query in ranking order.
	// Returns ESEARCH when the backend fails.
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Summarizer condenses page content with respect to a search query.
type Summarizer interface {
	// Summarize returns a summary of content for query.
	// Returns EINVALID for empty content.
	Summarize(ctx context.Context, query, content string) (string, error)
}

// PageSearcher runs a search and returns the Markdown of the result pages.
type PageSearcher interface {
	// SearchPages returns page contents in search ranking order. Pages
	// that could not be processed are omitted.
	SearchPages(ctx context.Context, query string, progress ProgressFunc) ([]PageContent, error)
}
