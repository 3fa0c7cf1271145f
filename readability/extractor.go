// Package readability finds the main article of a page with
// github.com/go-shiori/go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/ssmcp"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements ssmcp.ArticleExtractor at compile time.
var _ ssmcp.ArticleExtractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractArticle returns the main content of rawHTML.
// Returns EEXTRACT for empty input or when no article is found.
func (e *Extractor) ExtractArticle(rawHTML string) (*ssmcp.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, ssmcp.Errorf(ssmcp.EEXTRACT, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, ssmcp.Errorf(ssmcp.EEXTRACT, "readability: %v", err)
	}

	return &ssmcp.Article{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
