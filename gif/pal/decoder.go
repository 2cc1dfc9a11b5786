package pal

import (
	"errors"
	"image/color"
	"io"
)

const (
	entrySize  = 3
	MaxEntries = 256
)

// Entries is the number of colours described by the 3-bit size field of a
// logical screen or image descriptor.
func Entries(size byte) int { return 1 << ((size & 7) + 1) }

type Decoder struct {
	r io.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads a colour table of Entries(size) RGB triples.
func (decoder *Decoder) Decode(size byte) (color.Palette, error) {
	n := Entries(size)
	buf := make([]byte, n*entrySize)
	if _, err := io.ReadFull(decoder.r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	pal := make(color.Palette, n)
	for i := range pal {
		off := i * entrySize
		pal[i] = color.RGBA{R: buf[off+0], G: buf[off+1], B: buf[off+2], A: 255}
	}
	return pal, nil
}
