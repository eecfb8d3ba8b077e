package main

import (
	"context"
	"fmt"
	"time"

	sqhttp "github.com/fwojciec/squirrel/http"
)

// shutdownTimeout bounds how long in-flight requests may finish on exit.
const shutdownTimeout = 10 * time.Second

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	server := sqhttp.NewServer(deps.Scraper, deps.History, deps.Logger)
	server.Addr = c.Addr

	if err := server.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", server.URL())

	<-deps.Ctx.Done()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(deps.Ctx), shutdownTimeout)
	defer cancel()
	return server.Close(ctx)
}
