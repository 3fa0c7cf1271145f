package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/ssmcp"
	main "github.com/fwojciec/ssmcp/cmd/ssmcp"
	"github.com/fwojciec/ssmcp/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints pages in argument order with headers", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Parser: &mock.PageParser{
				ParsePagesFn: func(context.Context, []string, ssmcp.ProgressFunc) (map[string]string, error) {
					return map[string]string{"https://b.example": "# B", "https://a.example": "# A"}, nil
				},
			},
		}

		cmd := &main.FetchCmd{URLs: []string{"https://a.example", "https://b.example"}}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "<!-- https://a.example -->\n# A\n\n<!-- https://b.example -->\n# B\n", stdout.String())
	})

	t.Run("reports dropped pages", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Parser: &mock.PageParser{
				ParsePagesFn: func(context.Context, []string, ssmcp.ProgressFunc) (map[string]string, error) {
					return map[string]string{"https://a.example": "# A"}, nil
				},
			},
		}

		cmd := &main.FetchCmd{URLs: []string{"https://a.example", "https://broken.example"}}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, ssmcp.EEXTRACT, ssmcp.ErrorCode(err))
		assert.Equal(t, "1 of 2 pages failed", ssmcp.ErrorMessage(err))
		assert.Contains(t, stdout.String(), "# A")
		assert.Contains(t, stderr.String(), "no content could be extracted from https://broken.example")
	})

	t.Run("writes pages to output directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Parser: &mock.PageParser{
				ParsePagesFn: func(context.Context, []string, ssmcp.ProgressFunc) (map[string]string, error) {
					return map[string]string{"https://a.example/docs/": "# Docs"}, nil
				},
			},
		}

		cmd := &main.FetchCmd{URLs: []string{"https://a.example/docs/"}, Output: dir}
		err := cmd.Run(deps)

		require.NoError(t, err)
		path := filepath.Join(dir, "a.example", "docs", "index.md")
		assert.Equal(t, path+"\n", stdout.String())
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "# Docs")
	})

	t.Run("batch error", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Parser: &mock.PageParser{
				ParsePagesFn: func(context.Context, []string, ssmcp.ProgressFunc) (map[string]string, error) {
					return nil, ssmcp.Errorf(ssmcp.EINTERNAL, "browser crashed")
				},
			},
		}

		cmd := &main.FetchCmd{URLs: []string{"https://a.example"}}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: browser crashed")
	})
}

func TestSearchCmd_Run(t *testing.T) {
	t.Parallel()

	searcher := &mock.PageSearcher{
		SearchPagesFn: func(_ context.Context, query string, _ ssmcp.ProgressFunc) ([]ssmcp.PageContent, error) {
			return []ssmcp.PageContent{{URL: "https://a.example", Content: "about " + query}}, nil
		},
	}

	t.Run("prints markdown", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Searcher: searcher}

		err := (&main.SearchCmd{Query: "go"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "<!-- https://a.example -->\nabout go\n", stdout.String())
	})

	t.Run("prints json", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Searcher: searcher}

		err := (&main.SearchCmd{Query: "go", JSON: true}).Run(deps)

		require.NoError(t, err)
		var pages []ssmcp.PageContent
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &pages))
		assert.Equal(t, []ssmcp.PageContent{{URL: "https://a.example", Content: "about go"}}, pages)
	})

	t.Run("search failure", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Searcher: &mock.PageSearcher{
				SearchPagesFn: func(context.Context, string, ssmcp.ProgressFunc) ([]ssmcp.PageContent, error) {
					return nil, ssmcp.Errorf(ssmcp.ESEARCH, "search service returned error: HTTP 502")
				},
			},
		}

		err := (&main.SearchCmd{Query: "go"}).Run(deps)

		assert.Equal(t, ssmcp.ESEARCH, ssmcp.ErrorCode(err))
		assert.Contains(t, stderr.String(), "HTTP 502")
	})
}

func TestSubtitlesCmd_Run(t *testing.T) {
	t.Parallel()

	stderr := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: &bytes.Buffer{},
		Stderr: stderr,
		Subtitles: &mock.SubtitleFetcher{
			SubtitlesFn: func(context.Context, string) (string, error) {
				return "", ssmcp.Errorf(ssmcp.ESUBTITLE, "no subtitles available for: https://youtu.be/x")
			},
		},
	}

	err := (&main.SubtitlesCmd{URL: "https://youtu.be/x"}).Run(deps)

	assert.Equal(t, ssmcp.ESUBTITLE, ssmcp.ErrorCode(err))
	assert.Contains(t, stderr.String(), "no subtitles available")
}
