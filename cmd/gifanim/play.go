package main

import (
	"context"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"gitgub.com/cam-per/gifanim/gif"
	"gitgub.com/cam-per/gifanim/internal/commands"
	"gitgub.com/cam-per/gifanim/internal/player"
	"gitgub.com/cam-per/gifanim/internal/source"
)

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "show an animation in a window (space pauses, escape quits)",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "scale",
				Aliases: []string{"s"},
				Value:   1,
				Usage:   "window size multiplier",
				Sources: cli.EnvVars("GIFANIM_SCALE"),
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Value:   1,
				Usage:   "images decompressed in parallel",
				Sources: cli.EnvVars("GIFANIM_JOBS"),
			},
		},
		Action: runPlay,
	}
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("play: expected one input file", 2)
	}
	name := cmd.Args().First()
	logger := commands.Logger()

	anim, err := source.Decode(ctx, name,
		gif.WithLogger(logger),
		gif.WithWorkers(cmd.Int("jobs")))
	if err != nil {
		return err
	}
	return player.Play(ctx, anim, player.Options{
		Title:  filepath.Base(name),
		Scale:  cmd.Int("scale"),
		Logger: logger,
	})
}
