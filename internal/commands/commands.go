// Package commands implements the gifanim command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

var (
	logger = slog.New(slog.DiscardHandler)

	title = color.New(color.FgCyan, color.Bold)
	label = color.New(color.FgYellow)
	fail  = color.New(color.FgRed)
)

// Logger is the logger configured by the --verbose flag.
func Logger() *slog.Logger { return logger }

// Root builds the gifanim command with extra subcommands appended.
func Root(extra ...*cli.Command) *cli.Command {
	return &cli.Command{
		Name:  "gifanim",
		Usage: "decode, inspect and extract animated GIFs",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log every decoded block",
				Sources: cli.EnvVars("GIFANIM_VERBOSE"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := slog.LevelWarn
			if cmd.Bool("verbose") {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(errWriter(cmd), &slog.HandlerOptions{Level: level}))
			return ctx, nil
		},
		Commands: append([]*cli.Command{
			infoCommand(),
			blocksCommand(),
			extractCommand(),
		}, extra...),
	}
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// Fail prints err the way every command reports errors.
func Fail(w io.Writer, err error) {
	fail.Fprintf(w, "error: %v\n", err)
}
