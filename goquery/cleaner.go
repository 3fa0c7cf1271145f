package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ssmcp"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Cleaner implements ssmcp.Cleaner at compile time.
var _ ssmcp.Cleaner = (*Cleaner)(nil)

var socialDomains = []string{
	"facebook.com",
	"twitter.com",
	"x.com",
	"linkedin.com",
	"instagram.com",
	"pinterest.com",
	"tiktok.com",
	"snapchat.com",
	"reddit.com",
}

// wordCountTags are dropped when their text falls under the word threshold.
const wordCountTags = "p, li, dd, dt, figcaption"

// tableParts are renamed to div when a table is judged to be layout.
var tableParts = map[string]bool{
	"table": true, "thead": true, "tbody": true, "tfoot": true,
	"tr": true, "td": true, "th": true, "caption": true,
}

// Cleaner produces the cleaned view of a rendered page: boilerplate tags,
// comments, off-site links and images, near-empty blocks and layout
// tables are removed.
type Cleaner struct {
	cfg ssmcp.CleanConfig
}

// NewCleaner creates a Cleaner from cfg.
func NewCleaner(cfg ssmcp.CleanConfig) *Cleaner {
	return &Cleaner{cfg: cfg}
}

// Clean returns the cleaned body of html. baseURL decides which links and
// images are external; when it is empty nothing counts as external.
func (c *Cleaner) Clean(html, baseURL string) (string, error) {
	doc, _, err := parse(html)
	if err != nil {
		return "", ssmcp.Errorf(ssmcp.EEXTRACT, "parsing HTML: %v", err)
	}

	removeComments(doc.Get(0))
	if len(c.cfg.ExcludedTags) > 0 {
		doc.Find(strings.Join(c.cfg.ExcludedTags, ", ")).Remove()
	}

	base, _ := url.Parse(baseURL)
	c.cleanLinks(doc, base)
	c.cleanImages(doc, base)
	c.cleanTables(doc)
	c.cleanShortBlocks(doc)

	return doc.Find("body").Html()
}

func (c *Cleaner) cleanLinks(doc *goquery.Document, base *url.URL) {
	if !c.cfg.ExcludeExternalLinks && !c.cfg.ExcludeSocialLinks {
		return
	}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		host := resolveHost(base, href)
		if host == "" {
			return
		}
		if c.cfg.ExcludeSocialLinks && isSocial(host) {
			unwrap(s)
			return
		}
		if c.cfg.ExcludeExternalLinks && isExternal(base, host) {
			unwrap(s)
		}
	})
}

func (c *Cleaner) cleanImages(doc *goquery.Document, base *url.URL) {
	if !c.cfg.ExcludeExternalImages {
		return
	}
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if host := resolveHost(base, src); host != "" && isExternal(base, host) {
			s.Remove()
		}
	})
}

func (c *Cleaner) cleanShortBlocks(doc *goquery.Document) {
	if c.cfg.WordCountThreshold <= 0 {
		return
	}
	doc.Find(wordCountTags).Each(func(_ int, s *goquery.Selection) {
		if s.Find("img, picture, video, audio, iframe").Length() > 0 {
			return
		}
		if len(strings.Fields(s.Text())) < c.cfg.WordCountThreshold {
			s.Remove()
		}
	})
}

// cleanTables turns layout tables into plain blocks. Nested tables are
// handled innermost first.
func (c *Cleaner) cleanTables(doc *goquery.Document) {
	tables := doc.Find("table").Nodes
	for i := len(tables) - 1; i >= 0; i-- {
		t := goquery.NewDocumentFromNode(tables[i]).Selection
		if tableScore(t) >= c.cfg.TableScoreThreshold {
			continue
		}
		flattenTable(tables[i])
	}
}

// tableScore estimates how likely a table holds tabular data.
func tableScore(t *goquery.Selection) int {
	score := 0
	if role, _ := t.Attr("role"); role == "presentation" || role == "none" {
		score -= 3
	}
	if t.Find("table").Length() > 0 {
		score -= 3
	}
	if t.Find("thead, th").Length() > 0 {
		score += 2
	}
	if t.Find("caption").Length() > 0 {
		score++
	}

	rows := t.Find("tr")
	if rows.Length() >= 2 {
		cols := rows.First().Children().Length()
		consistent := cols > 1
		rows.Each(func(_ int, r *goquery.Selection) {
			if r.Children().Length() != cols {
				consistent = false
			}
		})
		if consistent {
			score++
		}
	}
	return score
}

func flattenTable(n *html.Node) {
	if n.Type == html.ElementNode && tableParts[n.Data] {
		n.Data = "div"
		n.DataAtom = atom.Div
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "table" {
			continue
		}
		flattenTable(c)
	}
}

func resolveHost(base *url.URL, ref string) string {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func isExternal(base *url.URL, host string) bool {
	if base == nil || base.Hostname() == "" {
		return false
	}
	return trimWWW(host) != trimWWW(strings.ToLower(base.Hostname()))
}

func isSocial(host string) bool {
	for _, d := range socialDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func trimWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}
