package compose

import (
	"image"

	"golang.org/x/image/draw"
)

// Canvas is the raster the compositor paints on. Rectangles are in canvas
// coordinates and are clipped to Bounds.
type Canvas interface {
	Bounds() image.Rectangle
	// Region returns a copy of the pixels in r. The copy keeps canvas
	// coordinates, so its Rect is r clipped to Bounds.
	Region(r image.Rectangle) *image.RGBA
	// PutRegion overwrites r with the pixels of src at the same coordinates.
	PutRegion(r image.Rectangle, src *image.RGBA)
	// ClearRegion sets r to fully transparent.
	ClearRegion(r image.Rectangle)
}

// RGBA is a Canvas backed by an *image.RGBA.
type RGBA struct {
	img *image.RGBA
}

func NewRGBA(width, height int) *RGBA {
	return &RGBA{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (canvas *RGBA) Bounds() image.Rectangle { return canvas.img.Rect }

func (canvas *RGBA) Region(r image.Rectangle) *image.RGBA {
	r = r.Intersect(canvas.img.Rect)
	out := image.NewRGBA(r)
	draw.Draw(out, r, canvas.img, r.Min, draw.Src)
	return out
}

func (canvas *RGBA) PutRegion(r image.Rectangle, src *image.RGBA) {
	r = r.Intersect(canvas.img.Rect).Intersect(src.Rect)
	if r.Empty() {
		return
	}
	draw.Draw(canvas.img, r, src, r.Min, draw.Src)
}

func (canvas *RGBA) ClearRegion(r image.Rectangle) {
	draw.Draw(canvas.img, r.Intersect(canvas.img.Rect), image.Transparent, image.Point{}, draw.Src)
}
