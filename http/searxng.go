package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/ssmcp"
)

// DefaultSearchTimeout is the default timeout of a SearXNG query.
const DefaultSearchTimeout = 5 * time.Second

// Ensure SearXNG implements ssmcp.Searcher at compile time.
var _ ssmcp.Searcher = (*SearXNG)(nil)

// SearXNG queries a SearXNG instance through its JSON API.
type SearXNG struct {
	searchURL string
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// SearXNGOption configures a SearXNG client.
type SearXNGOption func(*SearXNG)

// WithSearchTimeout sets the timeout for search requests.
func WithSearchTimeout(d time.Duration) SearXNGOption {
	return func(s *SearXNG) {
		s.timeout = d
	}
}

// WithSearchUserAgent sets the User-Agent header of search requests.
func WithSearchUserAgent(ua string) SearXNGOption {
	return func(s *SearXNG) {
		s.userAgent = ua
	}
}

// NewSearXNG creates a client for the search endpoint at searchURL,
// e.g. "http://localhost:8080/search".
func NewSearXNG(searchURL string, opts ...SearXNGOption) *SearXNG {
	s := &SearXNG{
		searchURL: searchURL,
		timeout:   DefaultSearchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.client = &http.Client{
		Timeout: s.timeout,
	}

	return s
}

type searxngResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search returns the results for query in SearXNG ranking order.
// Returns ESEARCH when the service fails or answers with invalid JSON.
func (s *SearXNG) Search(ctx context.Context, query string) ([]ssmcp.SearchResult, error) {
	u, err := url.Parse(s.searchURL)
	if err != nil {
		return nil, ssmcp.Errorf(ssmcp.EINVALID, "invalid search URL %q", s.searchURL)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, ssmcp.Errorf(ssmcp.EINVALID, "building search request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, ssmcp.Errorf(ssmcp.ESEARCH, "search service did not respond: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ssmcp.Errorf(ssmcp.ESEARCH, "search service returned error: HTTP %d", resp.StatusCode)
	}

	var body searxngResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, ssmcp.Errorf(ssmcp.ESEARCH, "search service returned invalid JSON response: %v", err)
	}

	results := make([]ssmcp.SearchResult, 0, len(body.Results))
	for _, r := range body.Results {
		if strings.TrimSpace(r.URL) == "" {
			continue
		}
		results = append(results, ssmcp.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Content,
		})
	}
	return results, nil
}
