package gif

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"gitgub.com/cam-per/gifanim/gif/block"
	"gitgub.com/cam-per/gifanim/gif/compose"
	"gitgub.com/cam-per/gifanim/gif/interlace"
	"gitgub.com/cam-per/gifanim/gif/lzw"
)

// pendingImage is one image block waiting to be decompressed and composited.
type pendingImage struct {
	index  int
	gce    *block.GraphicControl
	desc   *block.Image
	pixels []byte
	err    error
}

type decoder struct {
	cfg    config
	parser *block.Parser
	anim   *Animation

	images  []*pendingImage
	pending *block.GraphicControl
}

// Decode parses data to the trailer and composites every image in it. It
// returns either the complete animation or an error, never both. ctx is
// checked between blocks.
func Decode(ctx context.Context, data []byte, opts ...Option) (*Animation, error) {
	decoder := &decoder{
		cfg:    newConfig(opts),
		parser: block.NewParser(data),
		anim:   &Animation{LoopCount: -1},
	}

	parseErr := decoder.parse(ctx)
	if decoder.anim.Header == nil {
		return nil, parseErr
	}

	decoder.decompress(ctx)
	if err := decoder.compose(); err != nil {
		return nil, err
	}
	if parseErr != nil {
		return nil, parseErr
	}

	decoder.cfg.logger.Debug("decoded",
		slog.Int("frames", len(decoder.anim.Frames)),
		slog.Int("loops", decoder.anim.LoopCount))
	return decoder.anim, nil
}

// DecodeReader reads r to the end and decodes the result. Read failures are
// reported as *SourceError.
func DecodeReader(ctx context.Context, r io.Reader, opts ...Option) (*Animation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &SourceError{Err: err}
	}
	return Decode(ctx, data, opts...)
}

// parse walks the block list, collecting images and metadata. Errors past
// the header are returned after the images before them have been queued, so
// that a failure is always reported for the earliest offending block.
func (decoder *decoder) parse(ctx context.Context) error {
	for index := 0; ; index++ {
		offset := decoder.parser.Offset()
		if err := decoder.checkpoint(ctx, index); err != nil {
			return &DecodeError{Op: "cancel", Block: index, Offset: offset, Err: err}
		}

		b, err := decoder.parser.Next()
		if err != nil {
			op := "block"
			if index == 0 {
				op = "header"
			}
			return &DecodeError{Op: op, Block: index, Offset: offset, Err: err}
		}

		decoder.cfg.logger.Debug("block",
			slog.Int("index", index),
			slog.String("kind", b.Kind().String()),
			slog.Int("offset", offset),
			slog.Int("size", decoder.parser.Offset()-offset))

		if done := decoder.handle(index, b); done {
			return nil
		}
	}
}

func (decoder *decoder) checkpoint(ctx context.Context, index int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if decoder.cfg.checkpoint != nil {
		return decoder.cfg.checkpoint(index)
	}
	return nil
}

func (decoder *decoder) handle(index int, b block.Block) bool {
	anim := decoder.anim

	switch b := b.(type) {
	case *block.Header:
		anim.Header = b
	case *block.GraphicControl:
		decoder.pending = b
	case *block.Image:
		decoder.images = append(decoder.images, &pendingImage{index: index, gce: decoder.pending, desc: b})
		decoder.pending = nil
	case *block.Comment:
		anim.Comments = append(anim.Comments, b.Text)
	case *block.Netscape:
		if loops, ok := b.LoopCount(); ok {
			anim.LoopCount = loops
		}
	case *block.PlainText, *block.Application, *block.Unknown:
		anim.Extensions = append(anim.Extensions, b)
	case *block.Trailer:
		return true
	}
	return false
}

func (decoder *decoder) decompress(ctx context.Context) {
	workers := min(decoder.cfg.workers, len(decoder.images))
	if workers <= 1 {
		var lz lzw.Decoder
		for _, img := range decoder.images {
			decoder.decompressImage(ctx, &lz, img)
		}
		return
	}

	queue := make(chan *pendingImage)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lz := new(lzw.Decoder)
			for img := range queue {
				decoder.decompressImage(ctx, lz, img)
			}
		}()
	}
	for _, img := range decoder.images {
		queue <- img
	}
	close(queue)
	wg.Wait()
}

func (decoder *decoder) decompressImage(ctx context.Context, lz *lzw.Decoder, img *pendingImage) {
	desc := img.desc
	if err := ctx.Err(); err != nil {
		img.err = &DecodeError{Op: "cancel", Block: img.index, Offset: desc.Pos(), Err: err}
		return
	}

	area := desc.Width * desc.Height
	if area == 0 {
		return
	}
	lz.Limit = area
	pixels, err := lz.Decode(make([]byte, 0, area), desc.MinCodeSize, desc.Data)
	if err != nil {
		img.err = &DecodeError{Op: "lzw", Block: img.index, Offset: desc.Pos(), Err: err}
		return
	}
	if desc.Interlaced {
		pixels = interlace.Deinterlace(pixels, desc.Width)
	}
	if len(pixels) < area {
		decoder.cfg.logger.Debug("short image data",
			slog.Int("index", img.index),
			slog.Int("pixels", len(pixels)),
			slog.Int("want", area))
	}
	img.pixels = pixels
}

func (decoder *decoder) compose() error {
	compositor := compose.NewCompositor(decoder.anim.Header, nil)
	for _, img := range decoder.images {
		if img.err != nil {
			return img.err
		}
		if _, err := compositor.Compose(img.gce, img.desc, img.pixels); err != nil {
			return &DecodeError{Op: "compose", Block: img.index, Offset: img.desc.Pos(), Err: err}
		}
		// pixels are not needed once painted
		img.pixels = nil
	}
	decoder.anim.Frames = compositor.Frames()
	return nil
}

// IsCancel reports whether err was caused by context cancellation or a
// checkpoint abort.
func IsCancel(err error) bool {
	var de *DecodeError
	return errors.As(err, &de) && de.Op == "cancel"
}
