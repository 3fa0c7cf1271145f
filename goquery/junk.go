package goquery

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ssmcp"
	"golang.org/x/net/html"
)

// Ensure JunkFilter implements ssmcp.ContentFilter at compile time.
var _ ssmcp.ContentFilter = (*JunkFilter)(nil)

// protectedTags are never removed themselves.
var protectedTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"code": true, "pre": true, "blockquote": true,
}

// protectedContainers keep their whole subtree verbatim.
var protectedContainers = map[string]bool{
	"code": true, "pre": true, "blockquote": true,
}

// JunkFilter removes residual UI fragments (tooltips, single-word labels,
// counters, symbol runs and repeated boilerplate) from a document.
//
// The single-token rule has no length exception: a standalone one-word
// call-out outside a heading is removed too.
type JunkFilter struct {
	enabled          bool
	letterRatioLimit float64
}

// NewJunkFilter creates a JunkFilter from cfg.
func NewJunkFilter(cfg ssmcp.FilterConfig) *JunkFilter {
	return &JunkFilter{
		enabled:          cfg.JunkEnabled,
		letterRatioLimit: cfg.LetterRatioThreshold,
	}
}

// Apply removes junk elements from html. It reports false when nothing but
// junk was left. When the filter is disabled html is returned unchanged.
func (f *JunkFilter) Apply(html string) (string, bool) {
	if !f.enabled {
		return html, true
	}

	doc, fragment, err := parse(html)
	if err != nil {
		return "", false
	}

	// Fragments are checked element by element; the wrappers added by the
	// parser carry the text of the whole fragment.
	elements := doc.Find("*")
	if fragment {
		elements = doc.Find("body").Find("*")
	}

	seen := make(map[string]bool)
	elements.Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)

		// An ancestor was already removed.
		if !attached(n) {
			return
		}
		if protectedTags[n.Data] || insideProtectedContainer(n) {
			return
		}
		if f.isJunk(s, seen) {
			n.Parent.RemoveChild(n)
		}
	})

	if strings.TrimSpace(doc.Text()) == "" {
		return "", false
	}

	out, err := render(doc, fragment)
	if err != nil {
		return "", false
	}
	return out, true
}

func insideProtectedContainer(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && protectedContainers[p.Data] {
			return true
		}
	}
	return false
}

// isJunk applies the removal rules in order. seen collects the text of leaf
// elements kept so far.
func (f *JunkFilter) isJunk(s *goquery.Selection, seen map[string]bool) bool {
	if role, _ := s.Attr("role"); role == "tooltip" {
		return true
	}

	text := normalizeText(s.Text())

	// Single tokens: counters, short labels, bare symbols.
	if !strings.Contains(text, " ") {
		return true
	}

	if letterRatio(text) < f.letterRatioLimit {
		return true
	}

	if isLeaf(s) {
		if seen[text] {
			return true
		}
		seen[text] = true
	}

	return false
}

// isLeaf reports whether no child element of s carries text.
func isLeaf(s *goquery.Selection) bool {
	leaf := true
	s.Children().EachWithBreak(func(_ int, c *goquery.Selection) bool {
		if strings.TrimSpace(c.Text()) != "" {
			leaf = false
		}
		return leaf
	})
	return leaf
}

// letterRatio returns the share of letters among the non-space characters
// of text. Text without such characters has ratio 1.
func letterRatio(text string) float64 {
	var letters, total int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return 1
	}
	return float64(letters) / float64(total)
}
