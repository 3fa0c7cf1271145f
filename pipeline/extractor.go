package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/ssmcp"
)

// Ensure Extractor implements ssmcp.Extractor at compile time.
var _ ssmcp.Extractor = (*Extractor)(nil)

// Extractor renders targets with sessions from a Pool and derives the
// selected view from the rendered HTML.
type Extractor struct {
	pool        *Pool[ssmcp.Renderer]
	cleaner     ssmcp.Cleaner
	pruner      ssmcp.Pruner
	article     ssmcp.ArticleExtractor
	policy      ssmcp.RenderPolicy
	view        ssmcp.ViewMode
	retryDelays []time.Duration
	logger      *slog.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithRenderPolicy sets how pages are rendered.
func WithRenderPolicy(p ssmcp.RenderPolicy) ExtractorOption {
	return func(e *Extractor) {
		e.policy = p
	}
}

// WithViewMode selects which view becomes ExtractionResult.SelectedHTML.
func WithViewMode(v ssmcp.ViewMode) ExtractorOption {
	return func(e *Extractor) {
		e.view = v
	}
}

// WithArticleExtractor sets the backend of the article view.
func WithArticleExtractor(a ssmcp.ArticleExtractor) ExtractorOption {
	return func(e *Extractor) {
		e.article = a
	}
}

// WithRetryDelays retries failed renders, waiting each delay in turn.
func WithRetryDelays(delays []time.Duration) ExtractorOption {
	return func(e *Extractor) {
		e.retryDelays = delays
	}
}

// WithExtractorLogger sets the logger used to report render retries.
func WithExtractorLogger(l *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		e.logger = l
	}
}

// NewExtractor creates an Extractor using sessions from pool.
func NewExtractor(pool *Pool[ssmcp.Renderer], cleaner ssmcp.Cleaner, pruner ssmcp.Pruner, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		pool:    pool,
		cleaner: cleaner,
		pruner:  pruner,
		policy:  ssmcp.DefaultRenderPolicy(),
		view:    ssmcp.ViewFit,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = loggerOrDiscard(e.logger)
	return e
}

// Extract renders target and returns its raw and selected HTML.
// Returns EEXTRACT when rendering fails or both views are empty.
func (e *Extractor) Extract(ctx context.Context, target ssmcp.Target) (*ssmcp.ExtractionResult, error) {
	raw, err := e.render(ctx, target)
	if err != nil {
		return nil, err
	}

	selected, err := e.selectView(raw, target.BaseURL)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(raw) == "" && strings.TrimSpace(selected) == "" {
		return nil, ssmcp.Errorf(ssmcp.EEXTRACT, "no HTML content extracted from %s", target)
	}

	return &ssmcp.ExtractionResult{
		RawHTML:      raw,
		SelectedHTML: selected,
	}, nil
}

// render holds one session for the whole render, retries included.
func (e *Extractor) render(ctx context.Context, target ssmcp.Target) (string, error) {
	var html string
	err := e.pool.Do(ctx, func(r ssmcp.Renderer) error {
		return withRetry(ctx, e.retryDelays, func() error {
			rctx, cancel := context.WithTimeout(ctx, e.policy.PageTimeout)
			defer cancel()

			out, err := r.Render(rctx, target, e.policy)
			if err != nil {
				return err
			}
			html = out
			return nil
		}, func(attempt int, err error) {
			e.logger.Debug("retrying render", "target", target.String(), "attempt", attempt, "err", err)
		})
	})
	if err != nil {
		return "", ssmcp.Errorf(ssmcp.EEXTRACT, "rendering %s: %s", target, renderMessage(err))
	}
	return html, nil
}

func (e *Extractor) selectView(raw, baseURL string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}

	if e.view == ssmcp.ViewArticle {
		if e.article == nil {
			return "", ssmcp.Errorf(ssmcp.EINVALID, "article view requires an article extractor")
		}
		article, err := e.article.ExtractArticle(raw)
		if err != nil {
			return "", ssmcp.Errorf(ssmcp.EEXTRACT, "extracting article: %s", renderMessage(err))
		}
		return article.ContentHTML, nil
	}

	cleaned, err := e.cleaner.Clean(raw, baseURL)
	if err != nil {
		return "", ssmcp.Errorf(ssmcp.EEXTRACT, "cleaning HTML: %s", renderMessage(err))
	}
	if e.view == ssmcp.ViewCleaned {
		return cleaned, nil
	}

	fit, err := e.pruner.Prune(cleaned)
	if err != nil {
		return "", ssmcp.Errorf(ssmcp.EEXTRACT, "pruning HTML: %s", renderMessage(err))
	}
	return fit, nil
}

// renderMessage keeps the diagnostic of application errors and the plain
// text of anything else.
func renderMessage(err error) string {
	if ssmcp.ErrorCode(err) != ssmcp.EINTERNAL {
		return ssmcp.ErrorMessage(err)
	}
	return err.Error()
}
