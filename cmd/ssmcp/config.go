package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/ssmcp"
)

// Config is the process configuration, read once from flags and the
// environment.
type Config struct {
	Debug bool `env:"SSMCP_DEBUG" help:"Enable debug logging"`

	// Search.
	SearchURL     string  `name:"search-url" env:"SEARXNG_SEARCH_URL" help:"SearXNG search endpoint"`
	MaxResults    int     `name:"max-results" default:"5" env:"SEARXNG_MAX_RESULTS" help:"Number of result pages to fetch per search"`
	SearchTimeout float64 `name:"search-timeout" default:"5" env:"SEARXNG_TIMEOUT" help:"Search request timeout in seconds"`

	// Rendering.
	Renderer              string  `name:"renderer" enum:"chrome,http" default:"chrome" env:"SSMCP_RENDERER" help:"Rendering backend (chrome, http)"`
	BrowserBin            string  `name:"browser-bin" env:"SSMCP_BROWSER_BIN" help:"Chrome binary (default: found or downloaded by rod)"`
	BrowserMaxPages       int64   `name:"browser-max-pages" default:"75" env:"SSMCP_BROWSER_MAX_PAGES" help:"Pages rendered before a browser is recycled"`
	PoolSize              int     `name:"pool-size" default:"5" env:"CRAWL4AI_BROWSER_POOL_SIZE" help:"Number of browser sessions"`
	ViewportWidth         int     `name:"viewport-width" default:"1280" env:"CRAWL4AI_VIEWPORT_WIDTH" help:"Viewport width"`
	ViewportHeight        int     `name:"viewport-height" default:"900" env:"CRAWL4AI_VIEWPORT_HEIGHT" help:"Viewport height"`
	WaitUntil             string  `name:"wait-until" default:"domcontentloaded" env:"CRAWL4AI_WAIT_UNTIL" help:"Wait condition (load, domcontentloaded, networkidle)"`
	PageTimeout           int     `name:"page-timeout" default:"10000" env:"CRAWL4AI_PAGE_TIMEOUT" help:"Page timeout in milliseconds"`
	MaxScrollSteps        int     `name:"max-scroll-steps" default:"0" env:"CRAWL4AI_MAX_SCROLL_STEPS" help:"Viewport scrolls before capture"`
	ScrollDelay           float64 `name:"scroll-delay" default:"0.5" env:"CRAWL4AI_SCROLL_DELAY" help:"Delay between scrolls in seconds"`
	DelayBeforeReturnHTML float64 `name:"delay-before-capture" default:"0.5" env:"CRAWL4AI_DELAY_BEFORE_RETURN_HTML" help:"Delay before capturing HTML in seconds"`
	RenderRetries         int     `name:"render-retries" default:"0" env:"SSMCP_RENDER_RETRIES" help:"Retries of a failed render"`
	DomainRPS             float64 `name:"domain-rps" default:"0" env:"SSMCP_DOMAIN_RPS" help:"Requests per second per host (0 disables)"`

	// Render cache.
	CacheMode string        `name:"cache-mode" default:"enabled" env:"CRAWL4AI_CACHE_MODE" help:"Render cache mode (enabled, disabled, bypass, read_only, write_only)"`
	CachePath string        `name:"cache-path" env:"SSMCP_CACHE_PATH" help:"Render cache database (default: ~/.ssmcp/cache.db)"`
	CacheTTL  time.Duration `name:"cache-ttl" default:"24h" env:"SSMCP_CACHE_TTL" help:"Render cache entry lifetime (0 keeps entries forever)"`

	// Page views.
	HTMLType              string `name:"html-type" default:"fit_html" env:"EXTRACTION_HTML_TYPE" help:"Selected view (fit_html, cleaned_html, article_html)"`
	ArticleExtractor      string `name:"article-extractor" enum:"trafilatura,readability" default:"trafilatura" env:"SSMCP_ARTICLE_EXTRACTOR" help:"Backend of the article_html view"`
	ExcludedTags          string `name:"excluded-tags" default:"nav,footer,header,aside,script,style,noscript,form,button,iframe,svg,meta" env:"CRAWL4AI_EXCLUDED_TAGS" help:"Tags removed from the cleaned view"`
	WordCountThreshold    int    `name:"word-count-threshold" default:"1" env:"CRAWL4AI_WORD_COUNT_THRESHOLD" help:"Minimum words of a text block in the cleaned view"`
	TableScoreThreshold   int    `name:"table-score-threshold" default:"1" env:"CRAWL4AI_TABLE_SCORE_THRESHOLD" help:"Minimum score of a data table"`
	ExcludeExternalLinks  bool   `name:"exclude-external-links" default:"true" negatable:"" env:"CRAWL4AI_EXCLUDE_EXTERNAL_LINKS" help:"Unwrap links to other hosts"`
	ExcludeSocialLinks    bool   `name:"exclude-social-links" default:"true" negatable:"" env:"SSMCP_EXCLUDE_SOCIAL_LINKS" help:"Unwrap links to social media"`
	ExcludeExternalImages bool   `name:"exclude-external-images" default:"true" negatable:"" env:"SSMCP_EXCLUDE_EXTERNAL_IMAGES" help:"Drop images from other hosts"`

	// Region filters.
	Selectors   string  `name:"selectors" env:"CSS_SELECTOR_PRIORITY_LIST" help:"Content region selectors in priority order"`
	MinWords    int     `name:"min-words" default:"50" env:"CSS_SELECTOR_MIN_WORDS" help:"Minimum words of a selected region"`
	JunkFilter  bool    `name:"junk-filter" default:"true" negatable:"" env:"SSMCP_JUNK_FILTER" help:"Remove residual UI fragments"`
	LetterRatio float64 `name:"letter-ratio" default:"0.3" env:"SSMCP_LETTER_RATIO" help:"Minimum letter ratio of kept text"`

	// Markdown.
	PruningThreshold  float64 `name:"pruning-threshold" default:"0.3" env:"CRAWL4AI_PRUNING_THRESHOLD" help:"Significance threshold"`
	ThresholdType     string  `name:"threshold-type" default:"dynamic" env:"CRAWL4AI_THRESHOLD_TYPE" help:"Threshold mode (fixed, dynamic)"`
	MinWordThreshold  int     `name:"min-word-threshold" default:"1" env:"CRAWL4AI_MIN_WORD_THRESHOLD" help:"Minimum words of a kept block"`
	IgnoreLinks       bool    `name:"ignore-links" default:"true" negatable:"" env:"CRAWL4AI_IGNORE_LINKS" help:"Render links as plain text"`
	SkipInternalLinks bool    `name:"skip-internal-links" default:"true" negatable:"" env:"CRAWL4AI_SKIP_INTERNAL_LINKS" help:"Drop same-page anchors"`
	IgnoreImages      bool    `name:"ignore-images" default:"true" negatable:"" env:"CRAWL4AI_IGNORE_IMAGES" help:"Drop images"`
	EscapeHTML        bool    `name:"escape-html" default:"true" negatable:"" env:"CRAWL4AI_ESCAPE_HTML" help:"Escape raw HTML tags"`
	BodyWidth         int     `name:"body-width" default:"0" env:"CRAWL4AI_BODY_WIDTH" help:"Wrap paragraphs at this width (0 disables)"`
	IncludeSupSub     bool    `name:"include-sup-sub" default:"true" negatable:"" env:"CRAWL4AI_INCLUDE_SUP_SUB" help:"Mark superscript and subscript"`

	// Subtitles.
	SubtitleLanguage string `name:"subtitle-language" default:"en" env:"YOUTUBE_SUBTITLE_LANGUAGE" help:"Preferred subtitle language"`
	CookiesPath      string `name:"cookies-path" default:"cookies.txt" env:"YOUTUBE_COOKIES_PATH" help:"yt-dlp cookies file, used when present"`
	YtDlpBin         string `name:"yt-dlp" default:"yt-dlp" env:"YTDLP_BIN" help:"yt-dlp executable"`

	// Summaries.
	GeminiAPIKey  string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Enables search result summaries"`
	SummaryModel  string `name:"summary-model" default:"gemini-2.5-flash" env:"SSMCP_SUMMARY_MODEL" help:"Summary model"`
	SummaryPrompt string `name:"summary-prompt" env:"SSMCP_SUMMARY_PROMPT" help:"Summary system prompt"`
}

// Check validates the derived domain settings once parsing is done.
func (c *Config) Check() error {
	if c.PoolSize <= 0 {
		return ssmcp.Errorf(ssmcp.EINVALID, "pool size must be positive")
	}
	if c.RenderRetries < 0 {
		return ssmcp.Errorf(ssmcp.EINVALID, "render retries must not be negative")
	}
	if c.DomainRPS < 0 {
		return ssmcp.Errorf(ssmcp.EINVALID, "domain rps must not be negative")
	}
	if _, err := ssmcp.ParseViewMode(c.HTMLType); err != nil {
		return err
	}
	if _, err := ssmcp.ParseCacheMode(c.CacheMode); err != nil {
		return err
	}
	if err := c.RenderPolicy().Validate(); err != nil {
		return err
	}
	if err := c.FilterConfig().Validate(); err != nil {
		return err
	}
	return c.PruneConfig().Validate()
}

// FilterConfig returns the region filter settings.
func (c *Config) FilterConfig() ssmcp.FilterConfig {
	selectors := c.Selectors
	if selectors == "" {
		selectors = ssmcp.DefaultSelectors
	}
	return ssmcp.FilterConfig{
		Selectors:            ssmcp.ParseSelectorList(selectors),
		MinWords:             c.MinWords,
		JunkEnabled:          c.JunkFilter,
		LetterRatioThreshold: c.LetterRatio,
	}
}

// RenderPolicy returns the per-page render settings.
func (c *Config) RenderPolicy() ssmcp.RenderPolicy {
	return ssmcp.RenderPolicy{
		WaitUntil:          c.WaitUntil,
		PageTimeout:        time.Duration(c.PageTimeout) * time.Millisecond,
		ScrollSteps:        c.MaxScrollSteps,
		ScrollDelay:        seconds(c.ScrollDelay),
		DelayBeforeCapture: seconds(c.DelayBeforeReturnHTML),
		ViewportWidth:      c.ViewportWidth,
		ViewportHeight:     c.ViewportHeight,
	}
}

// CleanConfig returns the cleaned view settings.
func (c *Config) CleanConfig() ssmcp.CleanConfig {
	return ssmcp.CleanConfig{
		ExcludedTags:          ssmcp.ParseSelectorList(c.ExcludedTags),
		ExcludeExternalLinks:  c.ExcludeExternalLinks,
		ExcludeSocialLinks:    c.ExcludeSocialLinks,
		ExcludeExternalImages: c.ExcludeExternalImages,
		WordCountThreshold:    c.WordCountThreshold,
		TableScoreThreshold:   c.TableScoreThreshold,
	}
}

// PruneConfig returns the significance pruning settings.
func (c *Config) PruneConfig() ssmcp.PruneConfig {
	return ssmcp.PruneConfig{
		Threshold:     c.PruningThreshold,
		ThresholdType: c.ThresholdType,
		MinWords:      c.MinWordThreshold,
	}
}

// MarkdownOptions returns the Markdown rendering options.
func (c *Config) MarkdownOptions() ssmcp.MarkdownOptions {
	return ssmcp.MarkdownOptions{
		IgnoreImages:      c.IgnoreImages,
		IgnoreLinks:       c.IgnoreLinks,
		SkipInternalLinks: c.SkipInternalLinks,
		EscapeHTML:        c.EscapeHTML,
		BodyWidth:         c.BodyWidth,
		IncludeSupSub:     c.IncludeSupSub,
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ssmcp-cache.db"
	}
	dir := filepath.Join(home, ".ssmcp")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "cache.db")
}
