package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/squirrel"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	entries, err := deps.History.FindEntries(deps.Ctx, squirrel.HistoryFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", squirrel.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(deps.Stdout, "No history yet. Use 'squirrel scrape' to record one.")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-7s  %s\n",
			e.ID, e.CreatedAt.Local().Format(time.DateTime), e.Status, e.URL)
	}

	return nil
}
