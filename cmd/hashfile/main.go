package main

import (
	"context"
	"os"
	"os/signal"

	"hashfile/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
