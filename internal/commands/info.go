package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fumiama/imgsz"
	"github.com/urfave/cli/v3"

	"gitgub.com/cam-per/gifanim/gif"
	"gitgub.com/cam-per/gifanim/internal/source"
)

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "print the logical screen, loop count and frame timing",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "frames",
				Usage:   "list every frame",
				Sources: cli.EnvVars("GIFANIM_INFO_FRAMES"),
			},
		},
		Action: runInfo,
	}
}

func runInfo(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return cli.Exit("info: no input files", 2)
	}
	w := writer(cmd)
	for _, name := range cmd.Args().Slice() {
		data, err := source.ReadAll(ctx, name)
		if err != nil {
			return err
		}

		title.Fprintf(w, "%s", name)
		fmt.Fprintf(w, " (%s)\n", humanize.Bytes(uint64(len(data))))

		if size, format, err := imgsz.DecodeSize(bytes.NewReader(data)); err != nil {
			logger.Warn("cannot sniff format", "name", name, "err", err)
		} else if format != "gif" {
			fail.Fprintf(w, "  looks like %s %dx%d, not a GIF\n", format, size.Width, size.Height)
		}

		anim, err := gif.Decode(ctx, data, gif.WithLogger(logger))
		if err != nil {
			return err
		}
		printInfo(w, anim, cmd.Bool("frames"))
	}
	return nil
}

func field(w io.Writer, name, format string, args ...any) {
	label.Fprintf(w, "  %-10s", name)
	fmt.Fprintf(w, format+"\n", args...)
}

func printInfo(w io.Writer, anim *gif.Animation, frames bool) {
	header := anim.Header
	field(w, "version", "%s%s", header.Signature, header.Version)
	field(w, "screen", "%dx%d", header.Width, header.Height)
	if ratio := header.AspectRatio(); ratio != 0 {
		field(w, "aspect", "%.3f", ratio)
	}
	if header.GlobalColorTable != nil {
		field(w, "palette", "%d colors, background %d", len(header.GlobalColorTable), header.BackgroundIndex)
	} else {
		field(w, "palette", "none")
	}

	switch {
	case anim.LoopCount < 0:
		field(w, "loops", "none")
	case anim.LoopCount == 0:
		field(w, "loops", "forever")
	default:
		field(w, "loops", "%s", humanize.Comma(int64(anim.LoopCount)))
	}
	field(w, "frames", "%s, %s per pass", humanize.Comma(int64(len(anim.Frames))), anim.Duration())
	for _, comment := range anim.Comments {
		field(w, "comment", "%q", comment)
	}
	for _, ext := range anim.Extensions {
		field(w, "extension", "%s at %d", ext.Kind(), ext.Pos())
	}

	if frames {
		for i, frame := range anim.Frames {
			fmt.Fprintf(w, "    %4d  %4dcs  %s\n", i, frame.Delay, frame.Duration())
		}
	}
}
