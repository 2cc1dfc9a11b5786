// Package giftest assembles GIF byte streams block by block for tests.
package giftest

import (
	"bytes"
	"compress/lzw"
	"encoding/binary"
	"image/color"

	"gitgub.com/cam-per/gifanim/gif/interlace"
)

// Builder writes GIF blocks in the order its methods are called.
type Builder struct {
	buf bytes.Buffer
}

func New() *Builder { return &Builder{} }

func (b *Builder) Bytes() []byte { return b.buf.Bytes() }

func (b *Builder) Raw(p ...byte) *Builder {
	b.buf.Write(p)
	return b
}

func (b *Builder) uint16(v int) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], uint16(v))
	b.buf.Write(tmp[:])
}

// Header writes a GIF89a signature and logical screen descriptor, followed
// by the global colour table if global is non-empty.
func (b *Builder) Header(width, height int, global []color.RGBA) *Builder {
	b.buf.WriteString("GIF89a")
	b.uint16(width)
	b.uint16(height)
	var fields byte = 7 << 4
	if len(global) > 0 {
		fields |= 1<<7 | tableSize(len(global))
	}
	b.buf.WriteByte(fields)
	b.buf.WriteByte(0) // background
	b.buf.WriteByte(0) // aspect
	b.table(global)
	return b
}

// GraphicControl writes a graphic control extension. transparent < 0 means
// no transparent colour.
func (b *Builder) GraphicControl(disposal, delay, transparent int) *Builder {
	fields := byte(disposal&7) << 2
	index := 0
	if transparent >= 0 {
		fields |= 1
		index = transparent
	}
	b.buf.Write([]byte{0x21, 0xF9, 4, fields})
	b.uint16(delay)
	b.buf.Write([]byte{byte(index), 0})
	return b
}

func (b *Builder) Comment(text string) *Builder {
	b.buf.Write([]byte{0x21, 0xFE})
	b.buf.Write(SubBlocks([]byte(text)))
	return b
}

func (b *Builder) Application(identifier, authCode string, data []byte) *Builder {
	b.buf.Write([]byte{0x21, 0xFF, 11})
	b.buf.WriteString(identifier)
	b.buf.WriteString(authCode)
	b.buf.Write(SubBlocks(data))
	return b
}

func (b *Builder) Netscape(loops int) *Builder {
	return b.Application("NETSCAPE", "2.0", []byte{1, byte(loops), byte(loops >> 8)})
}

func (b *Builder) PlainText(left, top, width, height int, text string) *Builder {
	b.buf.Write([]byte{0x21, 0x01, 12})
	b.uint16(left)
	b.uint16(top)
	b.uint16(width)
	b.uint16(height)
	b.buf.Write([]byte{8, 8, 1, 0})
	b.buf.Write(SubBlocks([]byte(text)))
	return b
}

func (b *Builder) Extension(label byte, data []byte) *Builder {
	b.buf.Write([]byte{0x21, label})
	b.buf.Write(SubBlocks(data))
	return b
}

// Image describes an image block. Pixels are given in display order.
type Image struct {
	Left, Top     int
	Width, Height int
	Local         []color.RGBA
	Interlaced    bool
	MinCodeSize   int
	Pixels        []byte
}

func (b *Builder) Image(img Image) *Builder {
	b.buf.WriteByte(0x2C)
	b.uint16(img.Left)
	b.uint16(img.Top)
	b.uint16(img.Width)
	b.uint16(img.Height)

	var fields byte
	if len(img.Local) > 0 {
		fields |= 1<<7 | tableSize(len(img.Local))
	}
	pixels := img.Pixels
	if img.Interlaced {
		fields |= 1 << 6
		pixels = Interlace(pixels, img.Width)
	}
	b.buf.WriteByte(fields)
	b.table(img.Local)

	minCodeSize := img.MinCodeSize
	if minCodeSize == 0 {
		minCodeSize = 2
	}
	b.buf.WriteByte(byte(minCodeSize))
	b.buf.Write(SubBlocks(Compress(minCodeSize, pixels)))
	return b
}

func (b *Builder) Trailer() *Builder {
	b.buf.WriteByte(0x3B)
	return b
}

func (b *Builder) table(entries []color.RGBA) {
	if len(entries) == 0 {
		return
	}
	n := 2 << tableSize(len(entries))
	for i := 0; i < n; i++ {
		var c color.RGBA
		if i < len(entries) {
			c = entries[i]
		}
		b.buf.Write([]byte{c.R, c.G, c.B})
	}
}

// tableSize is the 3-bit size field for a table of at least n entries.
func tableSize(n int) byte {
	var size byte
	for 2<<size < n && size < 7 {
		size++
	}
	return size
}

// SubBlocks frames data as 255-byte sub-blocks plus the terminator.
func SubBlocks(data []byte) []byte {
	var out bytes.Buffer
	for len(data) > 0 {
		n := len(data)
		if n > 255 {
			n = 255
		}
		out.WriteByte(byte(n))
		out.Write(data[:n])
		data = data[n:]
	}
	out.WriteByte(0)
	return out.Bytes()
}

// Compress LZW-encodes pixels the way GIF encoders do.
func Compress(minCodeSize int, pixels []byte) []byte {
	var buf bytes.Buffer
	w := lzw.NewWriter(&buf, lzw.LSB, minCodeSize)
	if _, err := w.Write(pixels); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Interlace stores display-order rows in interlaced pass order.
func Interlace(pixels []byte, width int) []byte {
	if width <= 0 {
		return pixels
	}
	height := len(pixels) / width
	out := make([]byte, 0, len(pixels))
	for _, y := range interlace.Rows(height) {
		out = append(out, pixels[y*width:(y+1)*width]...)
	}
	return out
}
