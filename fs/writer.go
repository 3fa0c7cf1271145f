// Package fs stores fetched pages as Markdown files.
package fs

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/ssmcp"
)

// URLToPath converts a page URL to a relative file path under its host.
// Example: https://example.com/docs/api/users → example.com/docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", ssmcp.Errorf(ssmcp.EINVALID, "URL without host: %q", rawURL)
	}

	host := strings.ToLower(u.Hostname())
	path := strings.TrimPrefix(u.Path, "/")

	switch {
	case path == "":
		path = "index.md"
	case strings.HasSuffix(path, "/"):
		path += "index.md"
	default:
		path += ".md"
	}

	rel := filepath.Join(host, filepath.FromSlash(path))
	// Reject paths that climb out of the host directory.
	if rel != host && !strings.HasPrefix(rel, host+string(filepath.Separator)) {
		return "", ssmcp.Errorf(ssmcp.EINVALID, "unsafe URL path: %q", rawURL)
	}
	return rel, nil
}

// FormatPage formats a page with YAML frontmatter.
func FormatPage(page ssmcp.PageContent, fetched time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(page.URL)
	b.WriteString("\nfetched: ")
	b.WriteString(fetched.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(page.Content)
	if !strings.HasSuffix(page.Content, "\n") {
		b.WriteByte('\n')
	}
	return b.String()
}

// Ensure Writer implements ssmcp.PageWriter at compile time.
var _ ssmcp.PageWriter = (*Writer)(nil)

// Writer writes pages as markdown files to a directory.
type Writer struct {
	baseDir string
	now     func() time.Time
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir, now: time.Now}
}

// WritePage writes a page to disk as a markdown file.
func (w *Writer) WritePage(ctx context.Context, page ssmcp.PageContent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if page.URL == "" {
		return ssmcp.Errorf(ssmcp.EINVALID, "page URL required")
	}

	relPath, err := URLToPath(page.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(w.baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, []byte(FormatPage(page, w.now())), 0644)
}

// Path returns where page is written.
func (w *Writer) Path(rawURL string) (string, error) {
	rel, err := URLToPath(rawURL)
	if err != nil {
		return "", err
	}
	return filepath.Join(w.baseDir, rel), nil
}
