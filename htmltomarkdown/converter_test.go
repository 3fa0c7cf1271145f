package htmltomarkdown_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/ssmcp"
	"github.com/fwojciec/ssmcp/htmltomarkdown"
	"github.com/fwojciec/ssmcp/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainOptions disables every option that rewrites the HTML tree.
func plainOptions() ssmcp.MarkdownOptions {
	return ssmcp.MarkdownOptions{}
}

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts basic paragraph", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter(nil, plainOptions())
		md, err := conv.Convert(`<p>Hello, world!</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "Hello, world!")
	})

	t.Run("converts headings", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter(nil, plainOptions())
		md, err := conv.Convert(`<h1>Title</h1><h2>Subtitle</h2><h3>Section</h3>`)

		require.NoError(t, err)
		assert.Contains(t, md, "# Title")
		assert.Contains(t, md, "## Subtitle")
		assert.Contains(t, md, "### Section")
	})

	t.Run("converts links when links are kept", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter(nil, plainOptions())
		md, err := conv.Convert(`<p>Visit <a href="https://example.com">Example</a> for more info.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[Example](https://example.com)")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter(nil, plainOptions())
		md, err := conv.Convert(`<table><thead><tr><th>Name</th><th>Value</th></tr></thead><tbody><tr><td>a</td><td>b</td></tr></tbody></table>`)

		require.NoError(t, err)
		assert.Contains(t, md, "| Name")
		assert.Contains(t, md, "| a")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter(nil, plainOptions())
		_, err := conv.Convert("   ")

		require.Error(t, err)
		assert.Equal(t, ssmcp.ECONVERT, ssmcp.ErrorCode(err))
	})
}

func TestConverter_Options(t *testing.T) {
	t.Parallel()

	conv := htmltomarkdown.NewConverter(nil, ssmcp.DefaultMarkdownOptions())

	t.Run("drops images", func(t *testing.T) {
		t.Parallel()

		md, err := conv.Convert(`<p>Diagram below.</p><img src="/d.png" alt="diagram">`)

		require.NoError(t, err)
		assert.NotContains(t, md, "d.png")
	})

	t.Run("keeps link text and drops targets", func(t *testing.T) {
		t.Parallel()

		md, err := conv.Convert(`<p>Visit <a href="https://example.com">Example</a> now.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "Visit Example now.")
		assert.NotContains(t, md, "https://example.com")
	})

	t.Run("marks superscript and subscript", func(t *testing.T) {
		t.Parallel()

		md, err := conv.Convert(`<p>E = mc<sup>2</sup> and H<sub>2</sub>O</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "mc^2^")
		assert.NotContains(t, md, "H2O")
	})

	t.Run("escapes literal tags outside code", func(t *testing.T) {
		t.Parallel()

		md, err := conv.Convert(`<p>Use the &lt;div&gt; element.</p><pre><code>&lt;div&gt;&lt;/div&gt;</code></pre>`)

		require.NoError(t, err)
		assert.NotContains(t, md, "Use the <div>")
		assert.Contains(t, md, "<div></div>")
	})

	t.Run("skips internal anchors when links are kept", func(t *testing.T) {
		t.Parallel()

		opts := plainOptions()
		opts.SkipInternalLinks = true
		c := htmltomarkdown.NewConverter(nil, opts)

		md, err := c.Convert(`<p>Jump to <a href="#usage">usage</a> or <a href="/guide">the guide</a>.</p>`)

		require.NoError(t, err)
		assert.NotContains(t, md, "#usage")
		assert.Contains(t, md, "[the guide](/guide)")
	})

	t.Run("wraps paragraphs at body width", func(t *testing.T) {
		t.Parallel()

		opts := plainOptions()
		opts.BodyWidth = 20
		c := htmltomarkdown.NewConverter(nil, opts)

		md, err := c.Convert(`<p>one two three four five six seven eight nine ten</p>`)

		require.NoError(t, err)
		for _, line := range splitLines(md) {
			assert.LessOrEqual(t, len(line), 20)
		}
	})
}

func TestConverter_Pruning(t *testing.T) {
	t.Parallel()

	t.Run("prefers pruned markdown", func(t *testing.T) {
		t.Parallel()

		pruner := &mock.Pruner{
			PruneFn: func(string) (string, error) {
				return `<p>Pruned body.</p>`, nil
			},
		}
		conv := htmltomarkdown.NewConverter(pruner, plainOptions())

		md, err := conv.Convert(`<p>Full body.</p><p>Pruned body.</p>`)

		require.NoError(t, err)
		assert.Equal(t, "Pruned body.", md)
	})

	t.Run("falls back to unpruned markdown when pruning removes everything", func(t *testing.T) {
		t.Parallel()

		pruner := &mock.Pruner{
			PruneFn: func(string) (string, error) {
				return "", nil
			},
		}
		conv := htmltomarkdown.NewConverter(pruner, plainOptions())

		md, err := conv.Convert(`<p>Only the raw rendering has this.</p>`)

		require.NoError(t, err)
		assert.Equal(t, "Only the raw rendering has this.", md)
	})

	t.Run("fails when both renderings are empty", func(t *testing.T) {
		t.Parallel()

		pruner := &mock.Pruner{
			PruneFn: func(string) (string, error) {
				return "", nil
			},
		}
		conv := htmltomarkdown.NewConverter(pruner, ssmcp.DefaultMarkdownOptions())

		_, err := conv.Convert(`<div><img src="/only-an-image.png"></div>`)

		require.Error(t, err)
		assert.Equal(t, ssmcp.ECONVERT, ssmcp.ErrorCode(err))
	})

	t.Run("reports pruner failures as conversion failures", func(t *testing.T) {
		t.Parallel()

		pruner := &mock.Pruner{
			PruneFn: func(string) (string, error) {
				return "", ssmcp.Errorf(ssmcp.EINTERNAL, "boom")
			},
		}
		conv := htmltomarkdown.NewConverter(pruner, plainOptions())

		_, err := conv.Convert(`<p>text</p>`)

		require.Error(t, err)
		assert.Equal(t, ssmcp.ECONVERT, ssmcp.ErrorCode(err))
	})
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}
