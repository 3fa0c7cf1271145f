package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/fwojciec/ssmcp"
	"golang.org/x/sync/errgroup"
)

// Ensure Parser implements ssmcp.PageParser at compile time.
var _ ssmcp.PageParser = (*Parser)(nil)

// Parser runs the per-URL pipeline (extract, filter, optional
// re-extraction, convert) and fans it out over batches of URLs.
type Parser struct {
	Extractor ssmcp.Extractor
	Filter    ssmcp.ContentFilter
	Converter ssmcp.Converter
	Limiter   ssmcp.RenderLimiter
	Logger    *slog.Logger
}

// ParsePage returns the Markdown for a single URL.
func (p *Parser) ParsePage(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ssmcp.Errorf(ssmcp.EEXTRACT, "invalid URL %q", rawURL)
	}

	target := ssmcp.URLTarget(rawURL)
	if p.Limiter != nil {
		if err := p.Limiter.Wait(ctx, target); err != nil {
			return "", ssmcp.Errorf(ssmcp.EEXTRACT, "rate limit wait for %s: %v", u.Hostname(), err)
		}
	}

	result, err := p.Extractor.Extract(ctx, target)
	if err != nil {
		return "", err
	}

	html := result.SelectedHTML
	if filtered, ok := p.Filter.Apply(result.RawHTML); ok {
		// Let the renderer normalize the fragment before conversion.
		refined, err := p.Extractor.Extract(ctx, ssmcp.HTMLTarget(filtered, rawURL))
		if err != nil {
			return "", err
		}
		html = refined.SelectedHTML
	}

	return p.Converter.Convert(html)
}

type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeRecoverable
	outcomeFatal
)

// outcome is the tagged result of one URL's pipeline.
type outcome struct {
	kind     outcomeKind
	url      string
	markdown string
	err      error
}

// ParsePages processes urls concurrently. Progress is reported once before
// any work starts and once per finished URL, in completion order. URLs
// that fail with a recoverable error are logged and left out of the
// result. Any other failure cancels the remaining work and is returned.
func (p *Parser) ParsePages(ctx context.Context, urls []string, progress ssmcp.ProgressFunc) (map[string]string, error) {
	logger := loggerOrDiscard(p.Logger)
	total := len(urls)

	if progress != nil {
		progress(ssmcp.Progress{Total: total})
	}

	outcomeCh := make(chan outcome, total)

	g, gctx := errgroup.WithContext(ctx)
	go func() {
		for _, u := range urls {
			g.Go(func() error {
				o := p.run(gctx, u)
				outcomeCh <- o
				if o.kind == outcomeFatal {
					return o.err
				}
				return nil
			})
		}
		_ = g.Wait()
		close(outcomeCh)
	}()

	results := make(map[string]string, total)
	completed := 0
	aborted := false
	for o := range outcomeCh {
		if aborted {
			continue
		}

		completed++
		switch o.kind {
		case outcomeSuccess:
			results[o.url] = o.markdown
		case outcomeRecoverable:
			logger.Warn("dropping page", "url", o.url, "err", o.err)
		case outcomeFatal:
			aborted = true
			continue
		}

		if progress != nil {
			progress(ssmcp.Progress{
				URL:       o.url,
				Completed: completed,
				Total:     total,
				Error:     o.err,
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// run executes the pipeline for one URL and classifies the result.
// A panic is reported as a fatal outcome.
func (p *Parser) run(ctx context.Context, rawURL string) (o outcome) {
	defer func() {
		if r := recover(); r != nil {
			o = outcome{
				kind: outcomeFatal,
				url:  rawURL,
				err:  fmt.Errorf("parsing %s: panic: %v", rawURL, r),
			}
		}
	}()

	md, err := p.ParsePage(ctx, rawURL)
	switch {
	case err == nil:
		return outcome{kind: outcomeSuccess, url: rawURL, markdown: md}
	case ssmcp.IsRecoverable(err):
		return outcome{kind: outcomeRecoverable, url: rawURL, err: err}
	default:
		return outcome{kind: outcomeFatal, url: rawURL, err: fmt.Errorf("parsing %s: %w", rawURL, err)}
	}
}
