package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/squirrel"
	"github.com/fwojciec/squirrel/scrape"
)

// urlResult pairs a result with its URL in batch JSON output.
type urlResult struct {
	URL    string           `json:"url"`
	Result *squirrel.Result `json:"result"`
}

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	selectors, err := squirrel.ParseSelectorPairs(c.Selector)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", squirrel.ErrorMessage(err))
		return err
	}

	urls := c.URLs
	if c.Sitemap {
		if urls, err = c.discover(deps); err != nil {
			return err
		}
	}

	batch := &scrape.Batch{
		Scraper:     deps.Scraper,
		Limiter:     scrape.NewDomainLimiter(c.Rate),
		Concurrency: c.Concurrency,
	}

	var progress scrape.ProgressFunc
	if len(urls) > 1 {
		progress = func(p scrape.Progress) {
			status := "ok"
			if !p.Result.Success {
				status = "failed"
			}
			fmt.Fprintf(deps.Stderr, "  [%d/%d] %s %s\n", p.Completed, p.Total, status, p.URL)
		}
	}

	results := batch.ScrapeAll(deps.Ctx, urls, selectors, progress)

	if c.JSON {
		if err := writeResultsJSON(deps, urls, results); err != nil {
			return err
		}
	} else {
		writeResultsText(deps, urls, results)
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scrapes failed", failed, len(results))
	}
	return nil
}

// discover expands each site URL into the pages listed by its sitemaps.
func (c *ScrapeCmd) discover(deps *Dependencies) ([]string, error) {
	filter, err := squirrel.NewURLFilter(c.Include, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", squirrel.ErrorMessage(err))
		return nil, err
	}

	var urls []string
	seen := make(map[string]bool)
	for _, site := range c.URLs {
		found, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, site, filter)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: sitemap for %s: %s\n", site, squirrel.ErrorMessage(err))
			return nil, err
		}
		for _, u := range found {
			if !seen[u] {
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}

	if c.MaxPages > 0 && len(urls) > c.MaxPages {
		urls = urls[:c.MaxPages]
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no URLs found in sitemaps")
	}
	fmt.Fprintf(deps.Stderr, "  Found %d URLs\n", len(urls))
	return urls, nil
}

func writeResultsJSON(deps *Dependencies, urls []string, results []*squirrel.Result) error {
	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if len(results) == 1 {
		return enc.Encode(results[0])
	}
	out := make([]urlResult, len(results))
	for i, r := range results {
		out[i] = urlResult{URL: urls[i], Result: r}
	}
	return enc.Encode(out)
}

func writeResultsText(deps *Dependencies, urls []string, results []*squirrel.Result) {
	if len(results) == 1 {
		fmt.Fprintln(deps.Stdout, squirrel.FormatResult(results[0]))
		return
	}
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(deps.Stdout)
		}
		fmt.Fprintf(deps.Stdout, "==> %s <==\n%s\n", urls[i], squirrel.FormatResult(r))
	}
}
