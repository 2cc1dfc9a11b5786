package compose_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"gitgub.com/cam-per/gifanim/gif/block"
	"gitgub.com/cam-per/gifanim/gif/compose"
)

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	green = color.RGBA{G: 0xff, A: 0xff}
	blue  = color.RGBA{B: 0xff, A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	blank = color.RGBA{}
)

func header(width, height int) *block.Header {
	return &block.Header{
		Width:            width,
		Height:           height,
		GlobalColorTable: color.Palette{red, green, blue, white},
	}
}

func fill(width, height int, idx byte) []byte {
	pixels := make([]byte, width*height)
	for i := range pixels {
		pixels[i] = idx
	}
	return pixels
}

func at(frame compose.Frame, x, y int) color.RGBA {
	return frame.Image.RGBAAt(x, y)
}

func TestComposeSingleFrame(t *testing.T) {
	c := compose.NewCompositor(header(2, 2), nil)
	frame, err := c.Compose(nil, &block.Image{Width: 2, Height: 2}, []byte{0, 1, 2, 3})
	require.NoError(t, err)

	require.Equal(t, image.Rect(0, 0, 2, 2), frame.Image.Bounds())
	require.Equal(t, red, at(frame, 0, 0))
	require.Equal(t, green, at(frame, 1, 0))
	require.Equal(t, blue, at(frame, 0, 1))
	require.Equal(t, white, at(frame, 1, 1))
	require.Equal(t, 0, frame.Delay)
	require.Len(t, c.Frames(), 1)
}

func TestComposeDelay(t *testing.T) {
	c := compose.NewCompositor(header(1, 1), nil)
	frame, err := c.Compose(&block.GraphicControl{Delay: 25}, &block.Image{Width: 1, Height: 1}, []byte{0})
	require.NoError(t, err)
	require.Equal(t, 25, frame.Delay)
	require.Equal(t, "250ms", frame.Duration().String())
}

func TestComposeTransparentKeepsCanvas(t *testing.T) {
	c := compose.NewCompositor(header(2, 1), nil)
	_, err := c.Compose(nil, &block.Image{Width: 2, Height: 1}, []byte{0, 0})
	require.NoError(t, err)

	gce := &block.GraphicControl{Transparent: true, TransparentIndex: 1}
	frame, err := c.Compose(gce, &block.Image{Width: 2, Height: 1}, []byte{1, 2})
	require.NoError(t, err)
	require.Equal(t, red, at(frame, 0, 0))
	require.Equal(t, blue, at(frame, 1, 0))
}

func TestComposeTransparentOnEmptyCanvas(t *testing.T) {
	c := compose.NewCompositor(header(1, 1), nil)
	gce := &block.GraphicControl{Transparent: true, TransparentIndex: 0}
	frame, err := c.Compose(gce, &block.Image{Width: 1, Height: 1}, []byte{0})
	require.NoError(t, err)
	require.Equal(t, blank, at(frame, 0, 0))
}

func TestComposeDisposeToBackground(t *testing.T) {
	c := compose.NewCompositor(header(2, 2), nil)
	first, err := c.Compose(&block.GraphicControl{Disposal: block.DisposalBackground},
		&block.Image{Width: 2, Height: 2}, fill(2, 2, 0))
	require.NoError(t, err)

	second, err := c.Compose(nil, &block.Image{Width: 1, Height: 1}, []byte{1})
	require.NoError(t, err)

	require.Equal(t, red, at(first, 1, 1), "snapshots are not touched by later frames")
	require.Equal(t, green, at(second, 0, 0))
	require.Equal(t, blank, at(second, 1, 0))
	require.Equal(t, blank, at(second, 0, 1))
	require.Equal(t, blank, at(second, 1, 1))
}

func TestComposeDisposeNoneKeepsPixels(t *testing.T) {
	for _, disposal := range []block.Disposal{block.DisposalUnspecified, block.DisposalNone, 5} {
		c := compose.NewCompositor(header(2, 1), nil)
		_, err := c.Compose(&block.GraphicControl{Disposal: disposal}, &block.Image{Width: 2, Height: 1}, []byte{0, 0})
		require.NoError(t, err)

		second, err := c.Compose(nil, &block.Image{Width: 1, Height: 1}, []byte{2})
		require.NoError(t, err)
		require.Equal(t, blue, at(second, 0, 0), disposal.String())
		require.Equal(t, red, at(second, 1, 0), disposal.String())
	}
}

func TestComposeRestoreToPrevious(t *testing.T) {
	c := compose.NewCompositor(header(2, 1), nil)
	_, err := c.Compose(nil, &block.Image{Width: 2, Height: 1}, []byte{0, 0})
	require.NoError(t, err)

	// Two consecutive frames that ask to be restored both return to frame 0.
	_, err = c.Compose(&block.GraphicControl{Disposal: block.DisposalPrevious},
		&block.Image{Width: 1, Height: 1}, []byte{1})
	require.NoError(t, err)
	third, err := c.Compose(&block.GraphicControl{Disposal: block.DisposalPrevious},
		&block.Image{Left: 1, Width: 1, Height: 1}, []byte{2})
	require.NoError(t, err)
	require.Equal(t, red, at(third, 0, 0))
	require.Equal(t, blue, at(third, 1, 0))

	fourth, err := c.Compose(nil, &block.Image{Width: 1, Height: 1}, []byte{3})
	require.NoError(t, err)
	require.Equal(t, white, at(fourth, 0, 0))
	require.Equal(t, red, at(fourth, 1, 0))
}

// Policy choice, not a GIF requirement: restore with nothing saved clears.
func TestComposeRestoreWithoutSnapshotClears(t *testing.T) {
	c := compose.NewCompositor(header(2, 1), nil)
	_, err := c.Compose(&block.GraphicControl{Disposal: block.DisposalPrevious},
		&block.Image{Width: 2, Height: 1}, []byte{0, 0})
	require.NoError(t, err)

	second, err := c.Compose(nil, &block.Image{Width: 1, Height: 1}, []byte{1})
	require.NoError(t, err)
	require.Equal(t, green, at(second, 0, 0))
	require.Equal(t, blank, at(second, 1, 0))
}

func TestComposeLocalColorTable(t *testing.T) {
	c := compose.NewCompositor(header(1, 1), nil)
	img := &block.Image{Width: 1, Height: 1, LocalColorTable: color.Palette{white, blue}}
	frame, err := c.Compose(nil, img, []byte{1})
	require.NoError(t, err)
	require.Equal(t, blue, at(frame, 0, 0))
}

func TestComposeNoColorTable(t *testing.T) {
	c := compose.NewCompositor(&block.Header{Width: 1, Height: 1}, nil)
	_, err := c.Compose(nil, &block.Image{Width: 1, Height: 1}, []byte{0})
	require.ErrorIs(t, err, compose.ErrNoColorTable)
	require.Empty(t, c.Frames())
}

func TestComposeBadPixel(t *testing.T) {
	c := compose.NewCompositor(header(1, 1), nil)
	_, err := c.Compose(nil, &block.Image{Width: 1, Height: 1}, []byte{4})
	require.ErrorIs(t, err, compose.ErrBadPixel)
}

func TestComposeClipsToScreen(t *testing.T) {
	c := compose.NewCompositor(header(2, 2), nil)
	img := &block.Image{Left: 1, Top: 1, Width: 3, Height: 3}
	frame, err := c.Compose(nil, img, fill(3, 3, 3))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 2, 2), frame.Image.Bounds())
	require.Equal(t, white, at(frame, 1, 1))
	require.Equal(t, blank, at(frame, 0, 0))

	// Disposing a clipped rectangle stays inside the screen.
	c = compose.NewCompositor(header(2, 2), nil)
	_, err = c.Compose(&block.GraphicControl{Disposal: block.DisposalBackground}, img, fill(3, 3, 3))
	require.NoError(t, err)
	frame, err = c.Compose(nil, &block.Image{Width: 1, Height: 1}, []byte{0})
	require.NoError(t, err)
	require.Equal(t, blank, at(frame, 1, 1))
}

func TestComposeShortAndLongPixelData(t *testing.T) {
	c := compose.NewCompositor(header(2, 2), nil)
	frame, err := c.Compose(nil, &block.Image{Width: 2, Height: 2}, []byte{0, 1})
	require.NoError(t, err)
	require.Equal(t, green, at(frame, 1, 0))
	require.Equal(t, blank, at(frame, 0, 1))

	// Extra indices past width*height are ignored, even bad ones.
	c = compose.NewCompositor(header(1, 1), nil)
	frame, err = c.Compose(nil, &block.Image{Width: 1, Height: 1}, []byte{2, 200})
	require.NoError(t, err)
	require.Equal(t, blue, at(frame, 0, 0))
}

type countingCanvas struct {
	*compose.RGBA
	clears int
}

func (canvas *countingCanvas) ClearRegion(r image.Rectangle) {
	canvas.clears++
	canvas.RGBA.ClearRegion(r)
}

func TestComposeCustomCanvas(t *testing.T) {
	canvas := &countingCanvas{RGBA: compose.NewRGBA(1, 1)}
	c := compose.NewCompositor(header(1, 1), canvas)
	_, err := c.Compose(&block.GraphicControl{Disposal: block.DisposalBackground},
		&block.Image{Width: 1, Height: 1}, []byte{0})
	require.NoError(t, err)
	_, err = c.Compose(nil, &block.Image{Width: 1, Height: 1}, []byte{1})
	require.NoError(t, err)
	require.Equal(t, 1, canvas.clears)
}
