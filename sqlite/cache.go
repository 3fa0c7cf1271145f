package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/ssmcp"
)

// Ensure RenderCache implements ssmcp.Renderer at compile time.
var _ ssmcp.Renderer = (*RenderCache)(nil)

// RenderCache stores rendered HTML of URL targets in SQLite. Raw HTML
// targets always go to the wrapped renderer.
type RenderCache struct {
	db   *DB
	next ssmcp.Renderer
	mode ssmcp.CacheMode
	ttl  time.Duration
	now  func() time.Time
}

// CacheOption configures a RenderCache.
type CacheOption func(*RenderCache)

// WithTTL expires entries older than ttl. Zero keeps entries forever.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *RenderCache) {
		c.ttl = ttl
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) CacheOption {
	return func(c *RenderCache) {
		c.now = now
	}
}

// NewRenderCache wraps next with a cache in db operating in mode.
func NewRenderCache(db *DB, next ssmcp.Renderer, mode ssmcp.CacheMode, opts ...CacheOption) *RenderCache {
	c := &RenderCache{
		db:   db,
		next: next,
		mode: mode,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render returns cached HTML when the mode allows reads and an entry
// exists. Otherwise it renders with the wrapped renderer and stores the
// result when the mode allows writes.
func (c *RenderCache) Render(ctx context.Context, target ssmcp.Target, policy ssmcp.RenderPolicy) (string, error) {
	if target.Raw {
		return c.next.Render(ctx, target, policy)
	}

	key := cacheKey(target.Value)

	if c.mode.Reads() {
		html, err := c.lookup(ctx, key)
		if err == nil {
			return html, nil
		}
		if ssmcp.ErrorCode(err) != ssmcp.ENOTFOUND {
			return "", err
		}
	}

	html, err := c.next.Render(ctx, target, policy)
	if err != nil {
		return "", err
	}

	if c.mode.Writes() {
		// A failed write must not lose a successful render.
		_ = c.store(ctx, key, target.Value, html)
	}
	return html, nil
}

// Close closes the wrapped renderer. The database is owned by the caller.
func (c *RenderCache) Close() error {
	return c.next.Close()
}

func (c *RenderCache) lookup(ctx context.Context, key string) (string, error) {
	var html, fetchedAt string
	err := c.db.QueryRowContext(ctx,
		`SELECT html, fetched_at FROM render_cache WHERE key = ?`, key,
	).Scan(&html, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ssmcp.Errorf(ssmcp.ENOTFOUND, "cache miss")
	}
	if err != nil {
		return "", fmt.Errorf("reading render cache: %w", err)
	}

	if c.ttl > 0 {
		t, err := time.Parse(time.RFC3339, fetchedAt)
		if err != nil || c.now().Sub(t) > c.ttl {
			return "", ssmcp.Errorf(ssmcp.ENOTFOUND, "cache entry expired")
		}
	}
	return html, nil
}

func (c *RenderCache) store(ctx context.Context, key, url, html string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO render_cache (key, url, html, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			url = excluded.url,
			html = excluded.html,
			fetched_at = excluded.fetched_at
	`, key, url, html, c.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing render cache: %w", err)
	}
	return nil
}

func cacheKey(url string) string {
	return strconv.FormatUint(xxhash.Sum64String(url), 16)
}
