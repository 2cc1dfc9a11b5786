package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"gitgub.com/cam-per/gifanim/gif/block"
	"gitgub.com/cam-per/gifanim/internal/source"
	"gitgub.com/cam-per/gifanim/utils"
)

func blocksCommand() *cli.Command {
	return &cli.Command{
		Name:      "blocks",
		Usage:     "list the blocks of a GIF file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "hex",
				Usage:   "hex dump extension payloads",
				Sources: cli.EnvVars("GIFANIM_BLOCKS_HEX"),
			},
		},
		Action: runBlocks,
	}
}

func runBlocks(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("blocks: expected one input file", 2)
	}
	data, err := source.ReadAll(ctx, cmd.Args().First())
	if err != nil {
		return err
	}
	return listBlocks(writer(cmd), data, cmd.Bool("hex"))
}

func listBlocks(w io.Writer, data []byte, dump bool) error {
	parser := block.NewParser(data)
	for {
		b, err := parser.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		label.Fprintf(w, "%08x ", b.Pos())
		title.Fprintf(w, "%-18s", b.Kind())
		fmt.Fprintln(w, describe(b))

		if !dump {
			continue
		}
		var payload []byte
		switch b := b.(type) {
		case *block.Application:
			payload = b.Data
		case *block.Netscape:
			payload = b.Data
		case *block.Unknown:
			payload = b.Data
		}
		if len(payload) > 0 {
			if err := utils.HexDump(w, payload, 0); err != nil {
				return err
			}
		}
	}
}

func describe(b block.Block) string {
	switch b := b.(type) {
	case *block.Header:
		return fmt.Sprintf("%s%s %dx%d global=%d", b.Signature, b.Version, b.Width, b.Height, len(b.GlobalColorTable))
	case *block.GraphicControl:
		s := fmt.Sprintf("disposal=%s delay=%d", b.Disposal, b.Delay)
		if b.Transparent {
			s += fmt.Sprintf(" transparent=%d", b.TransparentIndex)
		}
		return s
	case *block.Comment:
		return fmt.Sprintf("%q", b.Text)
	case *block.PlainText:
		return fmt.Sprintf("%dx%d at %d,%d %q", b.Width, b.Height, b.Left, b.Top, b.Text)
	case *block.Application:
		return fmt.Sprintf("%s%s %s", b.Identifier, b.AuthCode, humanize.Bytes(uint64(len(b.Data))))
	case *block.Netscape:
		if loops, ok := b.LoopCount(); ok {
			return fmt.Sprintf("loops=%d", loops)
		}
		return fmt.Sprintf("sub-block %d", b.SubBlock)
	case *block.Unknown:
		return fmt.Sprintf("label=0x%.2x %s", b.Label, humanize.Bytes(uint64(len(b.Data))))
	case *block.Image:
		s := fmt.Sprintf("%dx%d at %d,%d lzw=%d data=%s", b.Width, b.Height, b.Left, b.Top, b.MinCodeSize, humanize.Bytes(uint64(len(b.Data))))
		if b.LocalColorTable != nil {
			s += fmt.Sprintf(" local=%d", len(b.LocalColorTable))
		}
		if b.Interlaced {
			s += " interlaced"
		}
		return s
	}
	return ""
}
