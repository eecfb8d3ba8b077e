package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/squirrel"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Scraper  squirrel.Scraper
	History  squirrel.HistoryService
	Sitemaps squirrel.SitemapService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB           string        `name:"db" env:"SQUIRREL_DB" help:"Path to the history database (default ~/.squirrel/squirrel.db)"`
	Timeout      time.Duration `env:"SQUIRREL_TIMEOUT" default:"20s" help:"Per-request fetch timeout"`
	MaxRedirects int           `default:"5" help:"Maximum redirects followed per request"`
	Verbose      bool          `short:"v" help:"Enable debug logging"`

	Scrape  ScrapeCmd  `cmd:"" help:"Scrape one or more URLs"`
	History HistoryCmd `cmd:"" help:"List recent scrapes"`
	Show    ShowCmd    `cmd:"" help:"Show a recorded scrape"`
	Serve   ServeCmd   `cmd:"" help:"Run the JSON API server"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URLs        []string `arg:"" name:"url" help:"URLs to scrape"`
	Selector    []string `short:"s" name:"selector" help:"Named CSS selector as name=selector (repeatable)"`
	JSON        bool     `name:"json" help:"Print results as JSON"`
	NoHistory   bool     `help:"Do not record results in the history"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent scrape limit"`
	Rate        float64  `default:"1" help:"Requests per second per domain (0 for unlimited)"`
	Sitemap     bool     `help:"Treat each URL as a site and scrape the pages its sitemap lists"`
	Include     []string `short:"i" help:"With --sitemap, keep only URLs matching a regex (repeatable)"`
	Exclude     []string `short:"x" help:"With --sitemap, drop URLs matching a regex (repeatable)"`
	MaxPages    int      `help:"With --sitemap, scrape at most this many pages (0 for all)"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Limit int  `short:"n" default:"50" help:"Maximum number of entries"`
	JSON  bool `name:"json" help:"Print entries as JSON"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID   string `arg:"" help:"History entry ID"`
	JSON bool   `name:"json" help:"Print the entry as JSON"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `env:"SQUIRREL_ADDR" default:":8080" help:"Listen address"`
}
