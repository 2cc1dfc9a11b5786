// Package compose layers decoded GIF images onto a persistent canvas,
// applying each frame's disposal method before the next one is drawn.
package compose

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"gitgub.com/cam-per/gifanim/gif/block"
)

var (
	ErrNoColorTable = errors.New("gif: no color table")
	ErrBadPixel     = errors.New("gif: pixel index outside color table")
)

// Frame is one fully composited animation frame.
type Frame struct {
	Image *image.RGBA
	// Delay in hundredths of a second.
	Delay int
}

func (frame Frame) Duration() time.Duration {
	return time.Duration(frame.Delay) * 10 * time.Millisecond
}

// Compositor carries the canvas and disposal state of one decode pass.
type Compositor struct {
	canvas Canvas
	global color.Palette
	frames []Frame

	lastDisposal block.Disposal
	lastRect     image.Rectangle
	// restoreFrom indexes the frame that "restore to previous" returns
	// to, or is -1 when every frame so far asked to be restored.
	restoreFrom int
}

// NewCompositor starts a pass over the logical screen described by header.
// A nil canvas gets a transparent RGBA canvas of the screen's size.
func NewCompositor(header *block.Header, canvas Canvas) *Compositor {
	if canvas == nil {
		canvas = NewRGBA(header.Width, header.Height)
	}
	return &Compositor{
		canvas:      canvas,
		global:      header.GlobalColorTable,
		restoreFrom: -1,
	}
}

// Frames returns every frame composited so far, in order.
func (compositor *Compositor) Frames() []Frame { return compositor.frames }

// Compose disposes of the previous frame, paints img's pixels (in display
// order) over the canvas and snapshots the result. gce may be nil.
func (compositor *Compositor) Compose(gce *block.GraphicControl, img *block.Image, pixels []byte) (Frame, error) {
	table := img.LocalColorTable
	if len(table) == 0 {
		table = compositor.global
	}
	if len(table) == 0 {
		return Frame{}, ErrNoColorTable
	}

	current := len(compositor.frames)
	if current > 0 {
		compositor.dispose(current)
	}

	rect := img.Rect().Intersect(compositor.canvas.Bounds())
	if err := compositor.paint(rect, gce, img, table, pixels); err != nil {
		return Frame{}, err
	}

	frame := Frame{Image: compositor.canvas.Region(compositor.canvas.Bounds())}
	compositor.lastDisposal = block.DisposalUnspecified
	if gce != nil {
		frame.Delay = int(gce.Delay)
		compositor.lastDisposal = gce.Disposal
	}
	compositor.lastRect = rect
	compositor.frames = append(compositor.frames, frame)
	return frame, nil
}

func (compositor *Compositor) dispose(current int) {
	switch compositor.lastDisposal {
	case block.DisposalBackground:
		// Restores to transparent, as browsers do, not to the background colour.
		compositor.canvas.ClearRegion(compositor.lastRect)
	case block.DisposalPrevious:
		if compositor.restoreFrom >= 0 {
			prev := compositor.frames[compositor.restoreFrom].Image
			compositor.canvas.PutRegion(compositor.lastRect, prev.SubImage(compositor.lastRect).(*image.RGBA))
		} else {
			compositor.canvas.ClearRegion(compositor.lastRect)
		}
	}

	if compositor.lastDisposal != block.DisposalPrevious {
		compositor.restoreFrom = current - 1
	}
}

func (compositor *Compositor) paint(rect image.Rectangle, gce *block.GraphicControl, img *block.Image, table color.Palette, pixels []byte) error {
	region := compositor.canvas.Region(rect)

	transparent := -1
	if gce != nil && gce.Transparent {
		transparent = int(gce.TransparentIndex)
	}

	colors := make([]color.RGBA, len(table))
	for i, c := range table {
		colors[i] = color.RGBAModel.Convert(c).(color.RGBA)
	}

	n := img.Width * img.Height
	if len(pixels) < n {
		n = len(pixels)
	}
	for i := 0; i < n; i++ {
		idx := int(pixels[i])
		if idx == transparent {
			continue
		}
		if idx >= len(colors) {
			return fmt.Errorf("%w: index %d, table has %d entries", ErrBadPixel, idx, len(colors))
		}
		p := image.Point{X: img.Left + i%img.Width, Y: img.Top + i/img.Width}
		if !p.In(rect) {
			continue
		}
		c := colors[idx]
		off := region.PixOffset(p.X, p.Y)
		region.Pix[off+0] = c.R
		region.Pix[off+1] = c.G
		region.Pix[off+2] = c.B
		region.Pix[off+3] = 0xff
	}

	compositor.canvas.PutRegion(rect, region)
	return nil
}
