package ssmcp

import (
	"context"
	"strings"
	"time"
)

// Target is what a Renderer is asked to render: either a URL to navigate to
// or a raw HTML payload that must be loaded without network navigation.
type Target struct {
	// Value is the URL or the raw HTML document.
	Value string

	// Raw marks Value as an HTML payload rather than a URL.
	Raw bool

	// BaseURL is the page the payload came from. It is only used to tell
	// internal links and images from external ones.
	BaseURL string
}

// URLTarget returns a Target that navigates to rawURL.
func URLTarget(rawURL string) Target {
	return Target{Value: rawURL, BaseURL: rawURL}
}

// HTMLTarget returns a Target that loads html directly.
// baseURL may be empty when the origin is unknown.
func HTMLTarget(html, baseURL string) Target {
	return Target{Value: html, Raw: true, BaseURL: baseURL}
}

// String returns a short description suitable for logs.
func (t Target) String() string {
	if t.Raw {
		return "raw:" + t.BaseURL
	}
	return t.Value
}

// ExtractionResult holds both views of a rendered page. It is never mutated
// after the Extractor returns it.
type ExtractionResult struct {
	// RawHTML is the unmodified DOM serialization after rendering.
	RawHTML string

	// SelectedHTML is the simplified view chosen by the configured ViewMode.
	SelectedHTML string
}

// Extractor renders a target and returns its raw and selected views.
type Extractor interface {
	// Extract renders target and returns both views.
	// Returns EEXTRACT when rendering fails or both views are empty.
	Extract(ctx context.Context, target Target) (*ExtractionResult, error)
}

// Renderer is a single headless-browser session.
// A Renderer is used by one caller at a time; sharing goes through a pool.
type Renderer interface {
	// Render loads target under policy and returns the rendered HTML.
	Render(ctx context.Context, target Target, policy RenderPolicy) (string, error)

	// Close releases browser resources.
	Close() error
}

// Wait conditions understood by renderers.
const (
	WaitLoad             = "load"
	WaitDOMContentLoaded = "domcontentloaded"
	WaitNetworkIdle      = "networkidle"
)

// RenderPolicy controls how a page is rendered.
type RenderPolicy struct {
	WaitUntil          string
	PageTimeout        time.Duration
	ScrollSteps        int
	ScrollDelay        time.Duration
	DelayBeforeCapture time.Duration
	ViewportWidth      int
	ViewportHeight     int
}

// DefaultRenderPolicy returns the policy used when nothing is configured.
func DefaultRenderPolicy() RenderPolicy {
	return RenderPolicy{
		WaitUntil:          WaitDOMContentLoaded,
		PageTimeout:        10 * time.Second,
		ScrollSteps:        0,
		ScrollDelay:        500 * time.Millisecond,
		DelayBeforeCapture: 500 * time.Millisecond,
		ViewportWidth:      1280,
		ViewportHeight:     900,
	}
}

// Validate returns an error if the policy contains invalid fields.
func (p RenderPolicy) Validate() error {
	switch p.WaitUntil {
	case WaitLoad, WaitDOMContentLoaded, WaitNetworkIdle:
	default:
		return Errorf(EINVALID, "unknown wait condition %q", p.WaitUntil)
	}
	if p.PageTimeout <= 0 {
		return Errorf(EINVALID, "page timeout must be positive")
	}
	if p.ScrollSteps < 0 {
		return Errorf(EINVALID, "scroll steps must not be negative")
	}
	if p.ViewportWidth <= 0 || p.ViewportHeight <= 0 {
		return Errorf(EINVALID, "viewport must be positive, got %dx%d", p.ViewportWidth, p.ViewportHeight)
	}
	return nil
}

// ViewMode selects which simplified view becomes SelectedHTML.
type ViewMode string

// ViewMode constants.
const (
	ViewFit     ViewMode = "fit_html"
	ViewCleaned ViewMode = "cleaned_html"
	ViewArticle ViewMode = "article_html"
)

// ParseViewMode converts a configuration string to a ViewMode.
func ParseViewMode(s string) (ViewMode, error) {
	switch m := ViewMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ViewFit, ViewCleaned, ViewArticle:
		return m, nil
	}
	return "", Errorf(EINVALID, "unknown HTML view %q", s)
}

// CacheMode controls reads and writes of the render cache.
type CacheMode string

// CacheMode constants.
const (
	CacheEnabled   CacheMode = "enabled"
	CacheDisabled  CacheMode = "disabled"
	CacheBypass    CacheMode = "bypass"
	CacheReadOnly  CacheMode = "read_only"
	CacheWriteOnly CacheMode = "write_only"
)

// ParseCacheMode converts a configuration string to a CacheMode.
func ParseCacheMode(s string) (CacheMode, error) {
	switch m := CacheMode(strings.ToLower(strings.TrimSpace(s))); m {
	case CacheEnabled, CacheDisabled, CacheBypass, CacheReadOnly, CacheWriteOnly:
		return m, nil
	}
	return "", Errorf(EINVALID, "unknown cache mode %q", s)
}

// Reads reports whether cached pages may be served.
func (m CacheMode) Reads() bool {
	return m == CacheEnabled || m == CacheReadOnly
}

// Writes reports whether rendered pages are stored.
func (m CacheMode) Writes() bool {
	return m == CacheEnabled || m == CacheWriteOnly
}

// Cleaner produces the boilerplate-stripped ("cleaned") view of a page.
type Cleaner interface {
	// Clean strips boilerplate from html. baseURL identifies external links
	// and images; it may be empty.
	Clean(html string, baseURL string) (string, error)
}

// CleanConfig controls the cleaned view.
type CleanConfig struct {
	ExcludedTags          []string
	ExcludeExternalLinks  bool
	ExcludeSocialLinks    bool
	ExcludeExternalImages bool
	WordCountThreshold    int
	TableScoreThreshold   int
}

// DefaultCleanConfig returns the default cleaned-view settings.
func DefaultCleanConfig() CleanConfig {
	return CleanConfig{
		ExcludedTags: []string{
			"nav", "footer", "header", "aside", "script", "style", "noscript",
			"form", "button", "iframe", "svg", "meta",
		},
		ExcludeExternalLinks:  true,
		ExcludeSocialLinks:    true,
		ExcludeExternalImages: true,
		WordCountThreshold:    1,
		TableScoreThreshold:   1,
	}
}

// Article holds the main content found by an ArticleExtractor.
type Article struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	ContentHTML string
}

// ArticleExtractor finds the main article of a page. It backs the
// article_html view.
type ArticleExtractor interface {
	ExtractArticle(html string) (*Article, error)
}
