package pipeline_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/ssmcp"
	"github.com/fwojciec/ssmcp/mock"
	"github.com/fwojciec/ssmcp/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// urlExtractor serves raw HTML "raw:<url>" and selected HTML "sel:<url>".
// Raw targets come back as "refined:<fragment>".
func urlExtractor(fail map[string]error) *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(_ context.Context, target ssmcp.Target) (*ssmcp.ExtractionResult, error) {
			if target.Raw {
				return &ssmcp.ExtractionResult{RawHTML: target.Value, SelectedHTML: "refined:" + target.Value}, nil
			}
			if err, ok := fail[target.Value]; ok {
				return nil, err
			}
			return &ssmcp.ExtractionResult{RawHTML: "raw:" + target.Value, SelectedHTML: "sel:" + target.Value}, nil
		},
	}
}

func echoConverter() *mock.Converter {
	return &mock.Converter{
		ConvertFn: func(html string) (string, error) { return "md(" + html + ")", nil },
	}
}

type progressRecorder struct {
	mu     sync.Mutex
	events []ssmcp.Progress
}

func (r *progressRecorder) record(p ssmcp.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, p)
}

func TestParser_ParsePages(t *testing.T) {
	t.Parallel()

	t.Run("drops recoverable failures and reports progress for every URL", func(t *testing.T) {
		t.Parallel()

		a, b, c := "https://a.example.com", "https://b.example.com", "https://c.example.com"
		p := &pipeline.Parser{
			Extractor: urlExtractor(map[string]error{
				b: ssmcp.Errorf(ssmcp.EEXTRACT, "timeout"),
			}),
			Filter:    noMatch(),
			Converter: echoConverter(),
		}
		rec := &progressRecorder{}

		results, err := p.ParsePages(context.Background(), []string{a, b, c}, rec.record)

		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			a: "md(sel:" + a + ")",
			c: "md(sel:" + c + ")",
		}, results)

		require.Len(t, rec.events, 4)
		assert.Equal(t, ssmcp.Progress{Total: 3}, rec.events[0])
		for i, ev := range rec.events[1:] {
			assert.Equal(t, i+1, ev.Completed)
			assert.Equal(t, 3, ev.Total)
		}
	})

	t.Run("converts the re-extracted fragment when the filter matches", func(t *testing.T) {
		t.Parallel()

		filter := &mock.ContentFilter{
			ApplyFn: func(html string) (string, bool) {
				return "<article>" + html + "</article>", true
			},
		}
		var targets []ssmcp.Target
		var mu sync.Mutex
		inner := urlExtractor(nil)
		ext := &mock.Extractor{
			ExtractFn: func(ctx context.Context, target ssmcp.Target) (*ssmcp.ExtractionResult, error) {
				mu.Lock()
				targets = append(targets, target)
				mu.Unlock()
				return inner.Extract(ctx, target)
			},
		}
		p := &pipeline.Parser{Extractor: ext, Filter: filter, Converter: echoConverter()}

		md, err := p.ParsePage(context.Background(), "https://example.com/post")

		require.NoError(t, err)
		assert.Equal(t, "md(refined:<article>raw:https://example.com/post</article>)", md)
		require.Len(t, targets, 2)
		assert.True(t, targets[1].Raw)
		assert.Equal(t, "https://example.com/post", targets[1].BaseURL)
	})

	t.Run("uses the original selected view without re-extraction when the filter misses", func(t *testing.T) {
		t.Parallel()

		calls := 0
		inner := urlExtractor(nil)
		ext := &mock.Extractor{
			ExtractFn: func(ctx context.Context, target ssmcp.Target) (*ssmcp.ExtractionResult, error) {
				calls++
				return inner.Extract(ctx, target)
			},
		}
		p := &pipeline.Parser{Extractor: ext, Filter: noMatch(), Converter: echoConverter()}

		md, err := p.ParsePage(context.Background(), "https://example.com/post")

		require.NoError(t, err)
		assert.Equal(t, "md(sel:https://example.com/post)", md)
		assert.Equal(t, 1, calls)
	})

	t.Run("single failing URL yields an empty result", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Parser{
			Extractor: urlExtractor(nil),
			Filter:    noMatch(),
			Converter: &mock.Converter{
				ConvertFn: func(string) (string, error) {
					return "", ssmcp.Errorf(ssmcp.ECONVERT, "no content")
				},
			},
		}

		results, err := p.ParsePages(context.Background(), []string{"https://example.com"}, nil)

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("invalid URLs are dropped", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Parser{Extractor: urlExtractor(nil), Filter: noMatch(), Converter: echoConverter()}

		results, err := p.ParsePages(context.Background(), []string{"not a url", "ftp://example.com/file"}, nil)

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("unexpected error aborts the batch", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Parser{
			Extractor: urlExtractor(nil),
			Filter:    noMatch(),
			Converter: &mock.Converter{
				ConvertFn: func(html string) (string, error) {
					if strings.Contains(html, "bad") {
						return "", ssmcp.Errorf(ssmcp.EINTERNAL, "bug")
					}
					return "ok", nil
				},
			},
		}

		results, err := p.ParsePages(context.Background(), []string{"https://good.example.com", "https://bad.example.com"}, nil)

		require.Error(t, err)
		assert.Nil(t, results)
		assert.Equal(t, ssmcp.EINTERNAL, ssmcp.ErrorCode(err))
	})

	t.Run("panic aborts the batch", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Parser{
			Extractor: urlExtractor(nil),
			Filter:    noMatch(),
			Converter: &mock.Converter{
				ConvertFn: func(string) (string, error) {
					panic("nil map")
				},
			},
		}

		_, err := p.ParsePages(context.Background(), []string{"https://example.com"}, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic")
	})

	t.Run("waits on the limiter before each URL render", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var targets []ssmcp.Target
		limiter := &mock.RenderLimiter{
			WaitFn: func(_ context.Context, target ssmcp.Target) error {
				mu.Lock()
				defer mu.Unlock()
				targets = append(targets, target)
				return nil
			},
		}
		p := &pipeline.Parser{
			Extractor: urlExtractor(nil),
			Filter:    noMatch(),
			Converter: echoConverter(),
			Limiter:   limiter,
		}

		_, err := p.ParsePages(context.Background(), []string{"https://a.example.com/x", "https://b.example.com:8443/y"}, nil)

		require.NoError(t, err)
		assert.ElementsMatch(t, []ssmcp.Target{
			ssmcp.URLTarget("https://a.example.com/x"),
			ssmcp.URLTarget("https://b.example.com:8443/y"),
		}, targets)
	})

	t.Run("limiter failure drops the URL", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Parser{
			Extractor: urlExtractor(nil),
			Filter:    noMatch(),
			Converter: echoConverter(),
			Limiter: &mock.RenderLimiter{
				WaitFn: func(context.Context, ssmcp.Target) error { return context.DeadlineExceeded },
			},
		}

		_, err := p.ParsePage(context.Background(), "https://example.com")

		assert.Equal(t, ssmcp.EEXTRACT, ssmcp.ErrorCode(err))
	})

	t.Run("empty batch reports only the start", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Parser{Extractor: urlExtractor(nil), Filter: noMatch(), Converter: echoConverter()}
		rec := &progressRecorder{}

		results, err := p.ParsePages(context.Background(), nil, rec.record)

		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Equal(t, []ssmcp.Progress{{Total: 0}}, rec.events)
	})
}
