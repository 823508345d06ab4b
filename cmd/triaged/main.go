package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"nurse-triage-backend/cmd/triaged/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.NewTriagedCommand(ctx).Execute(); err != nil {
		os.Exit(1)
	}
}
