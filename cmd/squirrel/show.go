package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/squirrel"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	entry, err := deps.History.FindEntryByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", squirrel.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(entry)
	}

	fmt.Fprintf(deps.Stdout, "ID:      %s\n", entry.ID)
	fmt.Fprintf(deps.Stdout, "URL:     %s\n", entry.URL)
	fmt.Fprintf(deps.Stdout, "Status:  %s\n", entry.Status)
	fmt.Fprintf(deps.Stdout, "Scraped: %s\n", entry.CreatedAt.Local().Format(time.DateTime))

	selectors, err := squirrel.ParseSelectorMap(entry.Selectors)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", squirrel.ErrorMessage(err))
		return err
	}
	if len(selectors) > 0 {
		fmt.Fprintf(deps.Stdout, "Selectors:\n%s\n", indent(squirrel.FormatSelectors(selectors)))
	}

	result, err := entry.Result()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", squirrel.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "\n%s\n", squirrel.FormatResult(result))

	return nil
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
