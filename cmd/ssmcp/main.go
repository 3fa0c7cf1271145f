package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/ssmcp"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is fine; the environment alone configures the process.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. Services left nil are built from the
	// configuration.
	Parser    ssmcp.PageParser
	Searcher  ssmcp.PageSearcher
	Subtitles ssmcp.SubtitleFetcher

	closers []func() error
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases everything Run started, in reverse order.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ssmcp"),
		kong.Description("Web search, page fetching and video subtitles for language models"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'ssmcp --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg := &cli.Config
	if err := cfg.Check(); err != nil {
		return fmt.Errorf("invalid configuration: %s", ssmcp.ErrorMessage(err))
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: newLogger(stderr, cfg.Debug),
	}
	defer m.Close()

	if err := m.wire(ctx, commandName(kongCtx), cfg, deps); err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

// wire builds the services the command needs.
func (m *Main) wire(ctx context.Context, cmd string, cfg *Config, deps *Dependencies) error {
	needsParser := cmd == "serve" || cmd == "fetch" || cmd == "search"
	needsSearch := cmd == "serve" || cmd == "search"
	needsSubtitles := cmd == "serve" || cmd == "subtitles"

	if needsParser && m.Parser == nil {
		p, closeFn, err := newParser(cfg, deps.Logger)
		if err != nil {
			return err
		}
		m.closers = append(m.closers, closeFn)
		m.Parser = p
	}
	deps.Parser = m.Parser

	if needsSearch && m.Searcher == nil {
		s, err := newSearchService(ctx, cfg, m.Parser, deps.Logger)
		if err != nil {
			return err
		}
		m.Searcher = s
	}
	deps.Searcher = m.Searcher

	if needsSubtitles && m.Subtitles == nil {
		m.Subtitles = newSubtitleFetcher(cfg, deps.Logger)
	}
	deps.Subtitles = m.Subtitles

	return nil
}

func commandName(kongCtx *kong.Context) string {
	fields := strings.Fields(kongCtx.Command())
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
