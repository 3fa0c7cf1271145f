package goquery

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ssmcp"
	"golang.org/x/net/html"
)

// Ensure Pruner implements ssmcp.Pruner at compile time.
var _ ssmcp.Pruner = (*Pruner)(nil)

// Metric weights sum to 1.
const (
	weightTextDensity = 0.4
	weightLinkDensity = 0.2
	weightTagWeight   = 0.2
	weightClassID     = 0.1
	weightTextLength  = 0.1
)

var tagWeights = map[string]float64{
	"div":     0.5,
	"p":       1.0,
	"article": 1.5,
	"section": 1.0,
	"span":    0.3,
	"li":      0.5,
	"ul":      0.5,
	"ol":      0.5,
	"h1":      1.2,
	"h2":      1.1,
	"h3":      1.0,
	"h4":      0.9,
	"h5":      0.8,
	"h6":      0.7,
}

// tagImportance scales the threshold in dynamic mode.
var tagImportance = map[string]float64{
	"article": 1.5,
	"main":    1.4,
	"section": 1.3,
	"p":       1.2,
	"h1":      1.4,
	"h2":      1.3,
	"h3":      1.2,
	"div":     0.7,
	"span":    0.6,
}

var negativeClassRe = regexp.MustCompile(`(?i)nav|footer|header|sidebar|ads|comment|promo|advert|social|share`)

// inlineTags are judged as part of their enclosing block.
var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true, "br": true,
	"cite": true, "code": true, "data": true, "dfn": true, "em": true,
	"i": true, "kbd": true, "mark": true, "q": true, "s": true, "samp": true,
	"small": true, "strong": true, "sub": true, "sup": true, "time": true,
	"u": true, "var": true, "wbr": true,
}

// pruneExcluded are removed before scoring.
const pruneExcluded = "nav, footer, header, aside, script, style, form, iframe, noscript"

// Pruner removes blocks that score below a significance threshold. Scores
// combine text density, link density, a per-tag weight, class and id
// hints, and text length.
type Pruner struct {
	cfg ssmcp.PruneConfig
}

// NewPruner creates a Pruner from cfg.
func NewPruner(cfg ssmcp.PruneConfig) *Pruner {
	return &Pruner{cfg: cfg}
}

// Prune returns the body of html with low-significance blocks removed.
// The result is empty when nothing survives.
func (p *Pruner) Prune(html string) (string, error) {
	doc, _, err := parse(html)
	if err != nil {
		return "", ssmcp.Errorf(ssmcp.ECONVERT, "parsing HTML: %v", err)
	}

	removeComments(doc.Get(0))
	doc.Find(pruneExcluded).Remove()

	body := doc.Find("body")
	for _, n := range body.Nodes {
		p.pruneChildren(n)
	}

	out, err := body.Html()
	if err != nil {
		return "", ssmcp.Errorf(ssmcp.ECONVERT, "rendering pruned HTML: %v", err)
	}
	return strings.TrimSpace(out), nil
}

func (p *Pruner) pruneChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type != html.ElementNode || inlineTags[c.Data]:
		case !p.keep(c):
			n.RemoveChild(c)
		case c.Data != "pre":
			p.pruneChildren(c)
		}
		c = next
	}
}

func (p *Pruner) keep(n *html.Node) bool {
	s := goquery.NewDocumentFromNode(n).Selection
	text := strings.TrimSpace(s.Text())

	if len(strings.Fields(text)) < p.cfg.MinWords {
		return false
	}

	outer, err := goquery.OuterHtml(s)
	if err != nil {
		return false
	}

	textLen := utf8.RuneCountInString(text)
	tagLen := utf8.RuneCountInString(outer)

	var linkLen int
	s.Find("a").AddBack().Filter("a").Each(func(_ int, a *goquery.Selection) {
		linkLen += utf8.RuneCountInString(strings.TrimSpace(a.Text()))
	})

	var textDensity, linkDensity float64
	if tagLen > 0 {
		textDensity = float64(textLen) / float64(tagLen)
	}
	if textLen > 0 {
		linkDensity = 1 - float64(linkLen)/float64(textLen)
	}

	score := weightTextDensity*textDensity +
		weightLinkDensity*linkDensity +
		weightTagWeight*tagWeight(n.Data) +
		weightClassID*classIDWeight(s) +
		weightTextLength*math.Log(float64(textLen)+1)

	return score >= p.threshold(n.Data, textLen, tagLen, linkLen)
}

func (p *Pruner) threshold(tag string, textLen, tagLen, linkLen int) float64 {
	if p.cfg.ThresholdType != ssmcp.ThresholdDynamic {
		return p.cfg.Threshold
	}

	importance, ok := tagImportance[tag]
	if !ok {
		importance = 1.0
	}
	threshold := p.cfg.Threshold * importance

	if tagLen > 0 && float64(textLen)/float64(tagLen) > 0.4 {
		threshold *= 0.8
	}
	if textLen > 0 && float64(linkLen)/float64(textLen) > 0.6 {
		threshold *= 1.2
	}
	return threshold
}

func tagWeight(tag string) float64 {
	if w, ok := tagWeights[tag]; ok {
		return w
	}
	return 0.5
}

func classIDWeight(s *goquery.Selection) float64 {
	class, _ := s.Attr("class")
	id, _ := s.Attr("id")
	if negativeClassRe.MatchString(class) || negativeClassRe.MatchString(id) {
		return -0.5
	}
	return 0
}
