package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"

	"gitgub.com/cam-per/gifanim/internal/commands"
)

func init() {
	// glfw must be driven from the main thread
	runtime.LockOSThread()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := commands.Root(playCommand())
	if err := cmd.Run(ctx, os.Args); err != nil {
		commands.Fail(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
