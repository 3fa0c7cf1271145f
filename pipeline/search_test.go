package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/ssmcp"
	"github.com/fwojciec/ssmcp/mock"
	"github.com/fwojciec/ssmcp/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func results(urls ...string) []ssmcp.SearchResult {
	out := make([]ssmcp.SearchResult, len(urls))
	for i, u := range urls {
		out[i] = ssmcp.SearchResult{Title: "t", URL: u}
	}
	return out
}

func staticSearcher(urls ...string) *mock.Searcher {
	return &mock.Searcher{
		SearchFn: func(context.Context, string) ([]ssmcp.SearchResult, error) {
			return results(urls...), nil
		},
	}
}

// markdownParser returns "md:<url>" for every URL except those in skip.
func markdownParser(got *[]string, skip ...string) *mock.PageParser {
	return &mock.PageParser{
		ParsePagesFn: func(_ context.Context, urls []string, _ ssmcp.ProgressFunc) (map[string]string, error) {
			*got = urls
			out := make(map[string]string)
			for _, u := range urls {
				out[u] = "md:" + u
			}
			for _, u := range skip {
				delete(out, u)
			}
			return out, nil
		},
	}
}

func TestSearchService_SearchPages(t *testing.T) {
	t.Parallel()

	t.Run("fetches distinct top results in search order", func(t *testing.T) {
		t.Parallel()

		var parsed []string
		s := &pipeline.SearchService{
			Searcher: staticSearcher(
				"https://a.com/1",
				"https://a.com/1#top",
				"",
				"https://b.com/2",
				"https://c.com/3",
			),
			Parser:     markdownParser(&parsed, "https://b.com/2"),
			MaxResults: 3,
		}

		pages, err := s.SearchPages(context.Background(), "golang", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.com/1", "https://b.com/2", "https://c.com/3"}, parsed)
		assert.Equal(t, []ssmcp.PageContent{
			{URL: "https://a.com/1", Content: "md:https://a.com/1"},
			{URL: "https://c.com/3", Content: "md:https://c.com/3"},
		}, pages)
	})

	t.Run("rejects empty query", func(t *testing.T) {
		t.Parallel()

		s := &pipeline.SearchService{}
		_, err := s.SearchPages(context.Background(), "  ", nil)

		require.Error(t, err)
		assert.Equal(t, ssmcp.EINVALID, ssmcp.ErrorCode(err))
	})

	t.Run("propagates search failures", func(t *testing.T) {
		t.Parallel()

		s := &pipeline.SearchService{
			Searcher: &mock.Searcher{
				SearchFn: func(context.Context, string) ([]ssmcp.SearchResult, error) {
					return nil, ssmcp.Errorf(ssmcp.ESEARCH, "service did not respond")
				},
			},
		}

		_, err := s.SearchPages(context.Background(), "q", nil)

		assert.Equal(t, ssmcp.ESEARCH, ssmcp.ErrorCode(err))
	})

	t.Run("returns empty list without results", func(t *testing.T) {
		t.Parallel()

		s := &pipeline.SearchService{Searcher: staticSearcher()}

		pages, err := s.SearchPages(context.Background(), "q", nil)

		require.NoError(t, err)
		assert.Empty(t, pages)
	})

	t.Run("replaces content with summaries and drops failed ones", func(t *testing.T) {
		t.Parallel()

		var parsed []string
		s := &pipeline.SearchService{
			Searcher: staticSearcher("https://a.com", "https://b.com"),
			Parser:   markdownParser(&parsed),
			Summarizer: &mock.Summarizer{
				SummarizeFn: func(_ context.Context, query, content string) (string, error) {
					if content == "md:https://b.com" {
						return "", errors.New("quota")
					}
					return query + " summary", nil
				},
			},
		}

		pages, err := s.SearchPages(context.Background(), "golang", nil)

		require.NoError(t, err)
		assert.Equal(t, []ssmcp.PageContent{{URL: "https://a.com", Content: "golang summary"}}, pages)
	})
}
