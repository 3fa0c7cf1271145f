package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/ssmcp"
	ssmcphttp "github.com/fwojciec/ssmcp/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	policy := ssmcp.DefaultRenderPolicy()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		r := ssmcphttp.NewRenderer()
		defer r.Close()

		html, err := r.Render(context.Background(), ssmcp.URLTarget(server.URL), policy)

		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", html)
	})

	t.Run("returns raw targets unchanged", func(t *testing.T) {
		t.Parallel()

		r := ssmcphttp.NewRenderer()
		html, err := r.Render(context.Background(), ssmcp.HTMLTarget("<p>x</p>", ""), policy)

		require.NoError(t, err)
		assert.Equal(t, "<p>x</p>", html)
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		r := ssmcphttp.NewRenderer(ssmcphttp.WithTimeout(10 * time.Millisecond))
		_, err := r.Render(context.Background(), ssmcp.URLTarget(server.URL), policy)

		require.Error(t, err)
	})

	t.Run("returns error for non-200 status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		r := ssmcphttp.NewRenderer()
		_, err := r.Render(context.Background(), ssmcp.URLTarget(server.URL), policy)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})
}
