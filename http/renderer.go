package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/ssmcp"
)

// Ensure Renderer implements ssmcp.Renderer at compile time.
var _ ssmcp.Renderer = (*Renderer)(nil)

// maxBodySize caps downloaded pages at 10 MiB.
const maxBodySize = 10 << 20

// Renderer fetches pages with plain HTTP requests. It runs no JavaScript,
// so it suits static sites and hosts without a browser. The wait, scroll
// and viewport settings of a policy do not apply.
type Renderer struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithTimeout sets the timeout for page requests.
func WithTimeout(d time.Duration) RendererOption {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// WithUserAgent sets the User-Agent header of page requests.
func WithUserAgent(ua string) RendererOption {
	return func(r *Renderer) {
		r.userAgent = ua
	}
}

// NewRenderer creates a new HTTP-based Renderer.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.client = &http.Client{
		Timeout: r.timeout,
	}

	return r
}

// Render returns the body of a URL target, or the HTML of a raw target
// unchanged.
func (r *Renderer) Render(ctx context.Context, target ssmcp.Target, _ ssmcp.RenderPolicy) (string, error) {
	if target.Raw {
		return target.Value, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.Value, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, target.Value)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Close is a no-op; http.Client needs no cleanup.
func (r *Renderer) Close() error {
	return nil
}
