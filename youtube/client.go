// Package youtube fetches video subtitles with the yt-dlp command-line tool.
package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/ssmcp"
)

// FallbackLanguage is tried when the configured language is unavailable.
const FallbackLanguage = "en"

// Ensure Client implements ssmcp.SubtitleFetcher at compile time.
var _ ssmcp.SubtitleFetcher = (*Client)(nil)

// RunFunc runs an external command and returns its standard output.
type RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Client downloads subtitles with yt-dlp and turns them into a
// de-duplicated, timestamped transcript.
type Client struct {
	language    string
	cookiesPath string
	binary      string
	run         RunFunc
}

// Option configures a Client.
type Option func(*Client)

// WithBinary sets the yt-dlp executable. Defaults to "yt-dlp" on PATH.
func WithBinary(path string) Option {
	return func(c *Client) {
		c.binary = path
	}
}

// WithRunner replaces the command runner.
func WithRunner(run RunFunc) Option {
	return func(c *Client) {
		c.run = run
	}
}

// NewClient creates a Client preferring subtitles in language. cookiesPath
// is passed to yt-dlp when the file exists.
func NewClient(language, cookiesPath string, opts ...Option) *Client {
	c := &Client{
		language:    language,
		cookiesPath: cookiesPath,
		binary:      "yt-dlp",
		run:         runCommand,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type videoInfo struct {
	Subtitles         map[string]json.RawMessage `json:"subtitles"`
	AutomaticCaptions map[string]json.RawMessage `json:"automatic_captions"`
}

// Subtitles returns the transcript of the video at url, one cue per line
// as "[HH:MM:SS.mmm] text". Returns ESUBTITLE on any failure.
func (c *Client) Subtitles(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", ssmcp.Errorf(ssmcp.EINVALID, "video URL is required")
	}

	out, err := c.run(ctx, c.binary, c.args("--dump-single-json", "--skip-download", url)...)
	if err != nil {
		return "", ssmcp.Errorf(ssmcp.ESUBTITLE, "reading video info for %s: %v", url, err)
	}

	var info videoInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return "", ssmcp.Errorf(ssmcp.ESUBTITLE, "decoding video info for %s: %v", url, err)
	}

	lang := c.selectLanguage(info)
	if lang == "" {
		return "", ssmcp.Errorf(ssmcp.ESUBTITLE, "no subtitles available for: %s", url)
	}

	data, err := c.download(ctx, url, lang)
	if err != nil {
		return "", err
	}

	cues, err := parseTTML(data)
	if err != nil {
		return "", ssmcp.Errorf(ssmcp.ESUBTITLE, "parsing subtitles for %s: %v", url, err)
	}

	lines := ssmcp.DeduplicateCues(cues)
	if len(lines) == 0 {
		return "", ssmcp.Errorf(ssmcp.ESUBTITLE, "subtitle parsing resulted in empty text for: %s", url)
	}
	return strings.Join(lines, "\n"), nil
}

// download fetches the subtitle track for lang into a scratch directory
// and returns its contents.
func (c *Client) download(ctx context.Context, url, lang string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "ssmcp-subs-*")
	if err != nil {
		return nil, ssmcp.Errorf(ssmcp.ESUBTITLE, "creating temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	args := c.args(
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", lang,
		"--sub-format", "ttml",
		"-o", filepath.Join(dir, "%(id)s.%(ext)s"),
		url,
	)
	if _, err := c.run(ctx, c.binary, args...); err != nil {
		return nil, ssmcp.Errorf(ssmcp.ESUBTITLE, "downloading subtitles for %s: %v", url, err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.ttml"))
	if err != nil || len(files) == 0 {
		return nil, ssmcp.Errorf(ssmcp.ESUBTITLE, "subtitle file not found after download for: %s", url)
	}

	data, err := os.ReadFile(files[0])
	if err != nil {
		return nil, ssmcp.Errorf(ssmcp.ESUBTITLE, "reading subtitle file: %v", err)
	}
	return data, nil
}

// args prepends the flags shared by every invocation.
func (c *Client) args(rest ...string) []string {
	args := []string{"--quiet", "--no-warnings"}
	if c.cookiesPath != "" {
		if _, err := os.Stat(c.cookiesPath); err == nil {
			args = append(args, "--cookies", c.cookiesPath)
		}
	}
	return append(args, rest...)
}

// selectLanguage prefers the configured language, then the fallback, then
// any manual track, then any automatic one. Among "any" tracks the
// alphabetically first code wins.
func (c *Client) selectLanguage(info videoInfo) string {
	for _, lang := range []string{c.language, FallbackLanguage} {
		if lang == "" {
			continue
		}
		if _, ok := info.Subtitles[lang]; ok {
			return lang
		}
		if _, ok := info.AutomaticCaptions[lang]; ok {
			return lang
		}
	}
	if lang := firstKey(info.Subtitles); lang != "" {
		return lang
	}
	return firstKey(info.AutomaticCaptions)
}

func firstKey(m map[string]json.RawMessage) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return keys[0]
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && stderr.Len() > 0 {
			return nil, fmt.Errorf("%s: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}
	return out, nil
}
