package scrape

import (
	"context"

	"github.com/fwojciec/squirrel"
)

// Ensure Recorder implements squirrel.Scraper at compile time.
var _ squirrel.Scraper = (*Recorder)(nil)

// Recorder wraps a Scraper and records every result in the history.
// Recording is best-effort: a failed write never changes the result.
type Recorder struct {
	Scraper squirrel.Scraper
	History squirrel.HistoryService

	// OnError, if set, is called when a result could not be recorded.
	OnError func(url string, err error)
}

// NewRecorder creates a new Recorder.
func NewRecorder(scraper squirrel.Scraper, history squirrel.HistoryService) *Recorder {
	return &Recorder{Scraper: scraper, History: history}
}

// Scrape delegates to the wrapped scraper and records the result.
func (r *Recorder) Scrape(ctx context.Context, url string, selectors squirrel.SelectorMap) *squirrel.Result {
	result := r.Scraper.Scrape(ctx, url, selectors)

	// The write outlives a canceled request so abandoned scrapes are still logged.
	if err := r.record(context.WithoutCancel(ctx), url, selectors, result); err != nil && r.OnError != nil {
		r.OnError(url, err)
	}

	return result
}

func (r *Recorder) record(ctx context.Context, url string, selectors squirrel.SelectorMap, result *squirrel.Result) error {
	entry, err := squirrel.NewHistoryEntry(url, selectors, result)
	if err != nil {
		return err
	}
	return r.History.CreateEntry(ctx, entry)
}
