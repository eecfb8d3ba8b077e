package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/squirrel"
	"github.com/fwojciec/squirrel/goquery"
	sqhttp "github.com/fwojciec/squirrel/http"
	"github.com/fwojciec/squirrel/scrape"
	sqslog "github.com/fwojciec/squirrel/slog"
	"github.com/fwojciec/squirrel/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); --db overrides it.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	HistoryService squirrel.HistoryService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("squirrel"),
		kong.Description("Scrape web pages into annotated text and keep a history of every scrape."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'squirrel --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	// Command() includes positionals, e.g. "scrape <url>".
	cmd = strings.Fields(kongCtx.Command())[0]

	if cli.DB != "" {
		m.DBPath = cli.DB
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel(cmd, cli.Verbose),
	}))
	deps.Logger = logger

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SQUIRREL_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.HistoryService = sqslog.NewLoggingHistoryService(sqlite.NewHistoryService(m.DB), logger)
	deps.History = m.HistoryService

	// Wire the scrape pipeline for commands that fetch pages.
	if cmd == "scrape" || cmd == "serve" {
		fetcher := sqslog.NewLoggingFetcher(
			sqhttp.NewFetcher(
				sqhttp.WithTimeout(cli.Timeout),
				sqhttp.WithMaxRedirects(cli.MaxRedirects),
			),
			logger,
		)

		var scraper squirrel.Scraper = sqslog.NewLoggingScraper(scrape.NewScraper(fetcher, goquery.NewParser()), logger)
		if !(cmd == "scrape" && cli.Scrape.NoHistory) {
			recorder := scrape.NewRecorder(scraper, m.HistoryService)
			recorder.OnError = func(url string, err error) {
				logger.Warn("failed to record history", "url", url, "err", err)
			}
			scraper = recorder
		}
		deps.Scraper = scraper
		deps.Sitemaps = sqslog.NewLoggingSitemapService(
			sqhttp.NewSitemapService(&http.Client{Timeout: cli.Timeout}),
			logger,
		)
	}

	return kongCtx.Run(deps)
}

// logLevel shows request logs for the server and only problems otherwise.
func logLevel(cmd string, verbose bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case cmd == "serve":
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "squirrel.db"
	}
	dir := filepath.Join(home, ".squirrel")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "squirrel.db")
}
