package mock

import (
	"context"

	"github.com/fwojciec/squirrel"
)

var _ squirrel.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of squirrel.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*squirrel.Response, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*squirrel.Response, error) {
	return f.FetchFn(ctx, url)
}
