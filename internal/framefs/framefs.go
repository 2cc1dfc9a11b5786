// Package framefs exposes the frames of a decoded animation as a read-only
// file system, one encoded image file per frame plus a frames.txt index.
package framefs

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/nfnt/resize"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"gitgub.com/cam-per/gifanim/gif"
)

type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	Zstd Format = "rgba.zst"

	IndexName = "frames.txt"
)

var Formats = []Format{PNG, BMP, Zstd}

func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("framefs: unknown format %q", s)
}

func FrameName(index int, format Format) string {
	return fmt.Sprintf("frame_%04d.%s", index, format)
}

type entry struct {
	name    string
	isDir   bool
	entries []fs.DirEntry
	m       map[string]*entry

	render func() ([]byte, error)
	once   sync.Once
	data   []byte
	err    error
}

func newDirEntry(name string) *entry {
	return &entry{
		name:  name,
		isDir: true,
		m:     make(map[string]*entry),
	}
}

func newFileEntry(name string, render func() ([]byte, error)) *entry {
	return &entry{
		name:   name,
		render: render,
	}
}

func (e *entry) Name() string               { return e.name }
func (e *entry) IsDir() bool                { return e.isDir }
func (e *entry) Info() (fs.FileInfo, error) { return e, nil }
func (e *entry) ModTime() time.Time         { return time.Time{} }
func (e *entry) Sys() any                   { return nil }
func (e *entry) Type() fs.FileMode          { return e.Mode().Type() }

func (e *entry) Mode() fs.FileMode {
	if e.isDir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}

// Size encodes the file on first use. Encoding errors surface from Open.
func (e *entry) Size() int64 {
	data, _ := e.contents()
	return int64(len(data))
}

func (e *entry) contents() ([]byte, error) {
	if e.isDir {
		return nil, nil
	}
	e.once.Do(func() {
		e.data, e.err = e.render()
	})
	return e.data, e.err
}

func (e *entry) add(item *entry) {
	if _, ok := e.m[item.name]; ok {
		return
	}
	e.entries = append(e.entries, item)
	e.m[item.name] = item
}

type dir struct {
	*entry
	ep int
}

func (d *dir) Stat() (fs.FileInfo, error) { return d.entry, nil }
func (d *dir) Close() error               { return nil }

func (d *dir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: fs.ErrInvalid}
}

func (d *dir) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.ep:]
	if n <= 0 {
		d.ep = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.ep += n
	return rest[:n], nil
}

type file struct {
	*bytes.Reader
	e *entry
}

func (f *file) Stat() (fs.FileInfo, error) { return f.e, nil }
func (f *file) Close() error               { return nil }

// FS is a flat fs.FS over the frames of one animation.
type FS struct {
	anim   *gif.Animation
	format Format
	width  int
	root   *entry

	// shared across frames; EncodeAll is safe for concurrent use
	encoder *zstd.Encoder
}

// New lays out anim as files in the given format. A positive width scales
// every frame to that many pixels across, keeping the aspect ratio.
func New(anim *gif.Animation, format Format, width int) (*FS, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	fsys := &FS{
		anim:   anim,
		format: format,
		width:  width,
		root:   newDirEntry("."),
	}
	if format == Zstd {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd encoder: %w", err)
		}
		fsys.encoder = enc
	}

	for i := range anim.Frames {
		frame := anim.Frames[i]
		fsys.root.add(newFileEntry(FrameName(i, format), func() ([]byte, error) {
			return fsys.encode(frame.Image)
		}))
	}
	fsys.root.add(newFileEntry(IndexName, fsys.index))
	return fsys, nil
}

func (fsys *FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return &dir{entry: fsys.root}, nil
	}
	e, ok := fsys.root.m[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	data, err := e.contents()
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return &file{Reader: bytes.NewReader(data), e: e}, nil
}

// Bounds is the size frames are written at.
func (fsys *FS) Bounds() image.Rectangle {
	b := fsys.anim.Bounds()
	if fsys.width <= 0 || b.Dx() == 0 || fsys.width == b.Dx() {
		return b
	}
	height := b.Dy() * fsys.width / b.Dx()
	if height == 0 {
		height = 1
	}
	return image.Rect(0, 0, fsys.width, height)
}

func (fsys *FS) scale(img *image.RGBA) *image.RGBA {
	b := fsys.Bounds()
	if b == img.Rect {
		return img
	}
	scaled := resize.Resize(uint(b.Dx()), uint(b.Dy()), img, resize.NearestNeighbor)
	if rgba, ok := scaled.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	out := image.NewRGBA(b)
	draw.Draw(out, b, scaled, scaled.Bounds().Min, draw.Src)
	return out
}

func (fsys *FS) encode(img *image.RGBA) ([]byte, error) {
	img = fsys.scale(img)

	var buf bytes.Buffer
	switch fsys.format {
	case PNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case BMP:
		if err := bmp.Encode(&buf, img); err != nil {
			return nil, err
		}
	case Zstd:
		return fsys.encoder.EncodeAll(img.Pix, nil), nil
	}
	return buf.Bytes(), nil
}

// index lists one line per frame: file name, size and delay.
func (fsys *FS) index() ([]byte, error) {
	var buf bytes.Buffer
	b := fsys.Bounds()
	fmt.Fprintf(&buf, "# %dx%d loops=%d\n", b.Dx(), b.Dy(), fsys.anim.LoopCount)
	for i, frame := range fsys.anim.Frames {
		fmt.Fprintf(&buf, "%s %d %s\n", FrameName(i, fsys.format), frame.Delay, frame.Duration())
	}
	return buf.Bytes(), nil
}
