package ssmcp

import "context"

// Progress reports batch progress. The first report of a batch has
// Completed == 0; each finished URL produces one more, in completion order.
type Progress struct {
	URL       string
	Completed int
	Total     int
	Error     error
}

// ProgressFunc is called as pages are processed. Calls are never concurrent.
type ProgressFunc func(Progress)

// PageParser turns URLs into Markdown.
type PageParser interface {
	// ParsePages processes urls concurrently and maps each successfully
	// processed URL to its Markdown. URLs that failed with a recoverable
	// error are absent from the map; any other error aborts the batch.
	ParsePages(ctx context.Context, urls []string, progress ProgressFunc) (map[string]string, error)
}

// PageContent is a page returned to tool callers.
type PageContent struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// RenderLimiter paces renders of the same site.
type RenderLimiter interface {
	// Wait blocks until target may be rendered.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, target Target) error
}

// PageWriter stores fetched pages.
type PageWriter interface {
	// WritePage stores page. Returns EINVALID for a page without a URL.
	WritePage(ctx context.Context, page PageContent) error
}
