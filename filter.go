package ssmcp

import "strings"

// ContentFilter narrows an HTML document down to its content.
//
// Apply returns the filtered HTML and true, or false when the filter found
// nothing it could return. Implementations keep no state between calls.
type ContentFilter interface {
	Apply(html string) (string, bool)
}

// FilterConfig holds the settings of the region selector and junk filter.
// It is read-only after startup.
type FilterConfig struct {
	// Selectors are tried in order; the first one meeting MinWords wins.
	Selectors []string
	MinWords  int

	JunkEnabled          bool
	LetterRatioThreshold float64
}

// DefaultSelectors is the default region selector priority list.
const DefaultSelectors = `article, main, [role="main"], .article, .article-content, .page-content, ` +
	`.markdown, #article, #content, #main, #page, .content`

// DefaultFilterConfig returns the default filter settings.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		Selectors:            ParseSelectorList(DefaultSelectors),
		MinWords:             50,
		JunkEnabled:          true,
		LetterRatioThreshold: 0.30,
	}
}

// Validate returns an error if the config contains invalid fields.
func (c FilterConfig) Validate() error {
	if c.MinWords < 0 {
		return Errorf(EINVALID, "minimum word count must not be negative")
	}
	if c.LetterRatioThreshold < 0 || c.LetterRatioThreshold > 1 {
		return Errorf(EINVALID, "letter ratio threshold must be between 0 and 1, got %v", c.LetterRatioThreshold)
	}
	return nil
}

// ParseSelectorList splits a comma-separated selector list, dropping blanks.
func ParseSelectorList(s string) []string {
	var selectors []string
	for _, sel := range strings.Split(s, ",") {
		if sel = strings.TrimSpace(sel); sel != "" {
			selectors = append(selectors, sel)
		}
	}
	return selectors
}
