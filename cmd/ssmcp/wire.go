package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/ssmcp"
	"github.com/fwojciec/ssmcp/gemini"
	"github.com/fwojciec/ssmcp/goquery"
	"github.com/fwojciec/ssmcp/htmltomarkdown"
	ssmcphttp "github.com/fwojciec/ssmcp/http"
	"github.com/fwojciec/ssmcp/pipeline"
	"github.com/fwojciec/ssmcp/readability"
	"github.com/fwojciec/ssmcp/rod"
	ssmcpslog "github.com/fwojciec/ssmcp/slog"
	"github.com/fwojciec/ssmcp/sqlite"
	"github.com/fwojciec/ssmcp/trafilatura"
	"github.com/fwojciec/ssmcp/youtube"
	"google.golang.org/genai"
)

// poolCloseTimeout bounds how long shutdown waits for in-flight renders.
const poolCloseTimeout = 30 * time.Second

// newParser builds the page pipeline. The returned function stops the
// browser sessions and closes the render cache.
func newParser(cfg *Config, logger *slog.Logger) (*pipeline.Parser, func() error, error) {
	filterCfg := cfg.FilterConfig()
	selector, err := goquery.NewSelectorFilter(filterCfg)
	if err != nil {
		return nil, nil, err
	}

	pool, closePool, err := newRendererPool(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	viewMode, _ := ssmcp.ParseViewMode(cfg.HTMLType)
	pruner := goquery.NewPruner(cfg.PruneConfig())

	opts := []pipeline.ExtractorOption{
		pipeline.WithRenderPolicy(cfg.RenderPolicy()),
		pipeline.WithViewMode(viewMode),
		pipeline.WithRetryDelays(pipeline.BackoffDelays(cfg.RenderRetries)),
		pipeline.WithExtractorLogger(logger),
	}
	if viewMode == ssmcp.ViewArticle {
		opts = append(opts, pipeline.WithArticleExtractor(newArticleExtractor(cfg.ArticleExtractor)))
	}

	p := &pipeline.Parser{
		Extractor: pipeline.NewExtractor(pool, goquery.NewCleaner(cfg.CleanConfig()), pruner, opts...),
		Filter:    pipeline.NewChain(selector, goquery.NewJunkFilter(filterCfg)),
		Converter: ssmcpslog.NewLoggingConverter(htmltomarkdown.NewConverter(pruner, cfg.MarkdownOptions()), logger),
		Logger:    logger,
	}
	if cfg.DomainRPS > 0 {
		p.Limiter = pipeline.NewHostLimiter(cfg.DomainRPS, logger)
	}

	return p, closePool, nil
}

func newArticleExtractor(name string) ssmcp.ArticleExtractor {
	if name == "readability" {
		return readability.NewExtractor()
	}
	return trafilatura.NewExtractor()
}

// newRendererPool starts PoolSize renderers, each behind the render cache
// and a logging decorator.
func newRendererPool(cfg *Config, logger *slog.Logger) (*pipeline.Pool[ssmcp.Renderer], func() error, error) {
	mode, _ := ssmcp.ParseCacheMode(cfg.CacheMode)

	var db *sqlite.DB
	if mode.Reads() || mode.Writes() {
		path := cfg.CachePath
		if path == "" {
			path = defaultCachePath()
		}
		db = sqlite.NewDB(path)
		if err := db.Open(); err != nil {
			return nil, nil, fmt.Errorf("failed to open render cache at %q: %w", path, err)
		}
	}

	renderers := make([]ssmcp.Renderer, 0, cfg.PoolSize)
	closeAll := func() error {
		var errs []error
		for _, r := range renderers {
			errs = append(errs, r.Close())
		}
		if db != nil {
			errs = append(errs, db.Close())
		}
		return errors.Join(errs...)
	}

	for range cfg.PoolSize {
		r, err := newRenderer(cfg)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		if db != nil {
			r = sqlite.NewRenderCache(db, r, mode, sqlite.WithTTL(cfg.CacheTTL))
		}
		renderers = append(renderers, ssmcpslog.NewLoggingRenderer(r, logger))
	}

	pool := pipeline.NewPool(renderers...)
	closePool := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), poolCloseTimeout)
		defer cancel()
		err := pool.Close(ctx, func(r ssmcp.Renderer) error { return r.Close() })
		if db != nil {
			err = errors.Join(err, db.Close())
		}
		return err
	}
	return pool, closePool, nil
}

func newRenderer(cfg *Config) (ssmcp.Renderer, error) {
	if cfg.Renderer == "http" {
		return ssmcphttp.NewRenderer(ssmcphttp.WithTimeout(cfg.RenderPolicy().PageTimeout)), nil
	}

	opts := []rod.ManagerOption{rod.WithMaxPages(cfg.BrowserMaxPages)}
	if cfg.BrowserBin != "" {
		opts = append(opts, rod.WithBrowserBin(cfg.BrowserBin))
	}
	s, err := rod.NewSession(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
	}
	return s, nil
}

// newSearchService builds the search pipeline. Summaries are enabled when
// a Gemini API key is configured.
func newSearchService(ctx context.Context, cfg *Config, parser ssmcp.PageParser, logger *slog.Logger) (*pipeline.SearchService, error) {
	if cfg.SearchURL == "" {
		return nil, ssmcp.Errorf(ssmcp.EINVALID, "search URL is required (set SEARXNG_SEARCH_URL or --search-url)")
	}

	searcher := ssmcphttp.NewSearXNG(cfg.SearchURL,
		ssmcphttp.WithSearchTimeout(seconds(cfg.SearchTimeout)),
	)

	s := &pipeline.SearchService{
		Searcher:   ssmcpslog.NewLoggingSearcher(searcher, logger),
		Parser:     parser,
		MaxResults: cfg.MaxResults,
		Logger:     logger,
	}

	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		summarizer := gemini.NewSummarizer(client, cfg.SummaryModel, cfg.SummaryPrompt)
		s.Summarizer = ssmcpslog.NewLoggingSummarizer(summarizer, logger)
	}

	return s, nil
}

func newSubtitleFetcher(cfg *Config, logger *slog.Logger) ssmcp.SubtitleFetcher {
	client := youtube.NewClient(cfg.SubtitleLanguage, cfg.CookiesPath, youtube.WithBinary(cfg.YtDlpBin))
	return ssmcpslog.NewLoggingSubtitleFetcher(client, logger)
}
