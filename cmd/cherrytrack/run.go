package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

type application interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Done() <-chan os.Signal
}

var exit = os.Exit

func run(ctx context.Context, app application) {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start cherrytrack: %v\n", err)
		exit(1)
		return
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop cherrytrack: %v\n", err)
		exit(1)
	}
}

var _ application = (*fx.App)(nil)
