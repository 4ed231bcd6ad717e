package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/healthforge/cdssandbox/cmd"
	"github.com/healthforge/cdssandbox/lib/logging"
)

func main() {
	logging.Init(slog.LevelInfo)
	// Listen for interrupt signals (CTRL/CMD+C, OS instructing the process to stop) to cancel context.
	ctx, cancelFunc := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancelFunc()
	config, err := cmd.LoadConfig()
	if err != nil {
		panic(err)
	}
	if err := cmd.Start(ctx, config); err != nil {
		panic(err)
	}
}
