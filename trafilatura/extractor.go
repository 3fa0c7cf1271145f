// Package trafilatura finds the main article of a page with
// github.com/markusmobius/go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/ssmcp"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements ssmcp.ArticleExtractor at compile time.
var _ ssmcp.ArticleExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura. Comments sections are excluded; links
// and tables are kept so the Markdown converter decides what survives.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
			IncludeLinks:    true,
		},
	}
}

// ExtractArticle returns the main content of rawHTML.
// Returns EEXTRACT for empty input or when extraction fails.
func (e *Extractor) ExtractArticle(rawHTML string) (*ssmcp.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, ssmcp.Errorf(ssmcp.EEXTRACT, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, ssmcp.Errorf(ssmcp.EEXTRACT, "trafilatura: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, ssmcp.Errorf(ssmcp.EEXTRACT, "rendering article: %v", err)
		}
	}

	return &ssmcp.Article{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
