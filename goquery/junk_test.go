package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/ssmcp"
	"github.com/fwojciec/ssmcp/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJunkFilter_Apply(t *testing.T) {
	t.Parallel()

	f := goquery.NewJunkFilter(ssmcp.DefaultFilterConfig())

	t.Run("returns input unchanged when disabled", func(t *testing.T) {
		t.Parallel()

		cfg := ssmcp.DefaultFilterConfig()
		cfg.JunkEnabled = false
		disabled := goquery.NewJunkFilter(cfg)

		html := `<div><span>42</span></div>`
		out, ok := disabled.Apply(html)

		require.True(t, ok)
		assert.Equal(t, html, out)
	})

	t.Run("removes tooltips", func(t *testing.T) {
		t.Parallel()

		html := `<div><p>Main content paragraph with several words.</p><div role="tooltip">Copy to clipboard now</div></div>`
		out, ok := f.Apply(html)

		require.True(t, ok)
		assert.Contains(t, out, "Main content paragraph")
		assert.NotContains(t, out, "Copy to clipboard")
	})

	t.Run("removes single-token labels but keeps headings", func(t *testing.T) {
		t.Parallel()

		html := `<div><h2>AI</h2><p>Artificial intelligence is a broad field of study.</p><span>AI</span></div>`
		out, ok := f.Apply(html)

		require.True(t, ok)
		assert.Contains(t, out, "<h2>AI</h2>")
		assert.NotContains(t, out, "<span>AI</span>")
	})

	t.Run("keeps headings in a fragment of single tokens", func(t *testing.T) {
		t.Parallel()

		out, ok := f.Apply(`<h2>AI</h2><span>AI</span>`)

		require.True(t, ok)
		assert.Equal(t, "<h2>AI</h2>", out)
	})

	t.Run("keeps code blocks untouched in a short fragment", func(t *testing.T) {
		t.Parallel()

		out, ok := f.Apply(`<h1>Overview</h1><pre><code>x:=1</code></pre>`)

		require.True(t, ok)
		assert.Equal(t, "<h1>Overview</h1><pre><code>x:=1</code></pre>", out)
	})

	t.Run("removes low letter ratio fragments", func(t *testing.T) {
		t.Parallel()

		html := `<div><p>Some real prose sentence here.</p><p>12 34 56 %%</p></div>`
		out, ok := f.Apply(html)

		require.True(t, ok)
		assert.Contains(t, out, "Some real prose sentence here.")
		assert.NotContains(t, out, "12 34 56")
	})

	t.Run("keeps only the first of duplicate leaves", func(t *testing.T) {
		t.Parallel()

		html := `<div>
<p>Share this article now</p>
<p>Read the full story below</p>
<p>Share this article now</p>
<p>Share this article now</p>
</div>`
		out, ok := f.Apply(html)

		require.True(t, ok)
		assert.Equal(t, 1, strings.Count(out, "Share this article now"))
		assert.Contains(t, out, "Read the full story below")
	})

	t.Run("leaves code blocks intact", func(t *testing.T) {
		t.Parallel()

		html := `<div><p>Here is the example code listing.</p><pre><code>x := 1</code></pre></div>`
		out, ok := f.Apply(html)

		require.True(t, ok)
		assert.Contains(t, out, "<pre><code>x := 1</code></pre>")
	})

	t.Run("leaves blockquote descendants intact", func(t *testing.T) {
		t.Parallel()

		html := `<div><p>As the author once wrote in a letter:</p><blockquote><p><em>Indeed</em> it was so.</p></blockquote></div>`
		out, ok := f.Apply(html)

		require.True(t, ok)
		assert.Contains(t, out, "<em>Indeed</em>")
	})

	t.Run("reports no match when only junk remains", func(t *testing.T) {
		t.Parallel()

		_, ok := f.Apply(`<div><span>42</span><span>Share</span></div>`)

		assert.False(t, ok)
	})

	t.Run("fragment input is returned without document wrappers", func(t *testing.T) {
		t.Parallel()

		out, ok := f.Apply(`<article><p>Plain prose with several words.</p></article>`)

		require.True(t, ok)
		assert.Equal(t, `<article><p>Plain prose with several words.</p></article>`, out)
	})

	t.Run("is idempotent on clean prose", func(t *testing.T) {
		t.Parallel()

		html := `<article><h1>Title</h1><p>First paragraph of prose text.</p><p>Second paragraph with other words.</p></article>`

		first, ok := f.Apply(html)
		require.True(t, ok)
		second, ok := f.Apply(first)
		require.True(t, ok)

		assert.Equal(t, first, second)
	})
}
