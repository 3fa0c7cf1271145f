package htmltomarkdown

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ssmcp"
)

// prepare applies the Markdown options that act on the HTML tree before
// conversion.
func prepare(s string, opts ssmcp.MarkdownOptions) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", err
	}

	if opts.IgnoreImages {
		doc.Find("img, picture").Remove()
	}

	switch {
	case opts.IgnoreLinks:
		doc.Find("a").Each(func(_ int, a *goquery.Selection) { unwrap(a) })
	case opts.SkipInternalLinks:
		doc.Find(`a[href^="#"]`).Each(func(_ int, a *goquery.Selection) { unwrap(a) })
	}

	if opts.IncludeSupSub {
		markInline(doc, "sup", "^")
		markInline(doc, "sub", "~")
	}

	return doc.Find("body").Html()
}

// markInline replaces each tag element with its text between marks.
func markInline(doc *goquery.Document, tag, mark string) {
	doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			s.Remove()
			return
		}
		s.ReplaceWithHtml(html.EscapeString(mark + text + mark))
	})
}

func unwrap(s *goquery.Selection) {
	if s.Contents().Length() == 0 {
		s.Remove()
		return
	}
	s.Contents().Unwrap()
}
