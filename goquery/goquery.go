// Package goquery implements the HTML filters, the boilerplate cleaner and
// the significance pruner on top of github.com/PuerkitoBio/goquery.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var htmlTagRe = regexp.MustCompile(`(?i)<html[\s>]`)

// parse builds a document from s and reports whether s was a fragment
// rather than a full document.
func parse(s string) (*goquery.Document, bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return nil, false, err
	}
	return doc, !htmlTagRe.MatchString(s), nil
}

// render serializes doc. Fragments come back without the html, head and
// body wrappers the parser adds.
func render(doc *goquery.Document, fragment bool) (string, error) {
	if fragment {
		return doc.Find("body").Html()
	}
	return doc.Html()
}

// normalizeText collapses all whitespace runs to single spaces and trims.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// attached reports whether n is still part of a document tree.
func attached(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.DocumentNode {
			return true
		}
	}
	return false
}

// removeComments detaches every comment node under n.
func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}

// unwrap replaces s with its contents.
func unwrap(s *goquery.Selection) {
	if s.Contents().Length() == 0 {
		s.Remove()
		return
	}
	s.Contents().Unwrap()
}
