package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/ssmcp"
)

// Ensure Converter implements ssmcp.Converter at compile time.
var _ ssmcp.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
//
// When a Pruner is set, the pruned ("fit") Markdown is preferred and the
// unpruned Markdown is the fallback.
type Converter struct {
	conv   *converter.Converter
	pruner ssmcp.Pruner
	opts   ssmcp.MarkdownOptions
}

// NewConverter creates a new Converter. pruner may be nil.
func NewConverter(pruner ssmcp.Pruner, opts ssmcp.MarkdownOptions) *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{
		conv:   conv,
		pruner: pruner,
		opts:   opts,
	}
}

// Convert transforms HTML content into Markdown.
// Returns ECONVERT if neither the pruned nor the unpruned rendering has
// any content.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", ssmcp.Errorf(ssmcp.ECONVERT, "empty HTML input")
	}

	if c.pruner != nil {
		pruned, err := c.pruner.Prune(html)
		if err != nil {
			return "", ssmcp.Errorf(ssmcp.ECONVERT, "pruning: %s", ssmcp.ErrorMessage(err))
		}
		if strings.TrimSpace(pruned) != "" {
			fit, err := c.render(pruned)
			if err != nil {
				return "", err
			}
			if fit != "" {
				return fit, nil
			}
		}
	}

	raw, err := c.render(html)
	if err != nil {
		return "", err
	}
	if raw == "" {
		return "", ssmcp.Errorf(ssmcp.ECONVERT, "markdown generation produced no content")
	}
	return raw, nil
}

func (c *Converter) render(html string) (string, error) {
	prepared, err := prepare(html, c.opts)
	if err != nil {
		return "", ssmcp.Errorf(ssmcp.ECONVERT, "preparing HTML: %v", err)
	}

	md, err := c.conv.ConvertString(prepared)
	if err != nil {
		return "", ssmcp.Errorf(ssmcp.ECONVERT, "converting HTML: %v", err)
	}

	if c.opts.EscapeHTML {
		md = escapeTags(md)
	}
	if c.opts.BodyWidth > 0 {
		md = wrap(md, c.opts.BodyWidth)
	}
	return strings.TrimSpace(md), nil
}
