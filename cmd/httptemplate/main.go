package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/halolabs/httptemplate/cmd/httptemplate/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.NewCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
