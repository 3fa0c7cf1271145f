package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/ssmcp"
)

// Ensure SelectorFilter implements ssmcp.ContentFilter at compile time.
var _ ssmcp.ContentFilter = (*SelectorFilter)(nil)

// SelectorFilter extracts the main content region using an ordered list of
// CSS selectors. Selector order encodes priority, not document order.
type SelectorFilter struct {
	selectors []string
	minWords  int
}

// NewSelectorFilter creates a SelectorFilter from cfg.
// Returns EINVALID if any selector does not compile.
func NewSelectorFilter(cfg ssmcp.FilterConfig) (*SelectorFilter, error) {
	for _, sel := range cfg.Selectors {
		if _, err := cascadia.Compile(sel); err != nil {
			return nil, ssmcp.Errorf(ssmcp.EINVALID, "invalid CSS selector %q: %v", sel, err)
		}
	}
	return &SelectorFilter{
		selectors: cfg.Selectors,
		minWords:  cfg.MinWords,
	}, nil
}

// Apply returns the outer HTML of the first element matched by the
// highest-priority selector whose text has at least the minimum number of
// words.
func (f *SelectorFilter) Apply(html string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	for _, sel := range f.selectors {
		match := doc.Find(sel).First()
		if match.Length() == 0 {
			continue
		}

		// Guard against empty or tiny wrappers that happen to match.
		if visibleWords(match) < f.minWords {
			continue
		}

		out, err := goquery.OuterHtml(match)
		if err != nil {
			continue
		}
		return out, true
	}

	return "", false
}

// visibleWords counts the words of s outside script, style and noscript.
func visibleWords(s *goquery.Selection) int {
	visible := s.Clone()
	visible.Find("script, style, noscript").Remove()
	return len(strings.Fields(visible.Text()))
}
