// Package block parses the GIF block grammar:
//
//	Header (Extension | Image)* Trailer
//
// Parser.Next yields one record per block, starting with the logical
// screen Header and ending with the Trailer.
package block

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
)

// Section indicators.
const (
	sExtension       = 0x21 // '!'
	sImageDescriptor = 0x2C // ','
	sTrailer         = 0x3B // ';'
)

// Extension labels.
const (
	ePlainText      = 0x01
	eGraphicControl = 0xF9
	eComment        = 0xFE
	eApplication    = 0xFF
)

// Masks.
const (
	// Logical screen fields.
	fColorTableFlag  = 1 << 7
	fColorResolution = 7 << 4
	fSortFlag        = 1 << 3
	fColorTableSize  = 7

	// Image descriptor fields.
	ifLocalColorTable = 1 << 7
	ifInterlace       = 1 << 6
	ifSortFlag        = 1 << 5

	// Graphic control fields.
	gcTransparentColorSet = 1 << 0
	gcUserInputSet        = 1 << 1
	gcDisposalMethod      = 7 << 2
)

const netscapeIdentifier = "NETSCAPE"

type Kind uint8

const (
	KindHeader Kind = iota
	KindGraphicControl
	KindComment
	KindPlainText
	KindApplication
	KindNetscape
	KindUnknown
	KindImage
	KindTrailer
)

var kindNames = [...]string{
	KindHeader:         "header",
	KindGraphicControl: "graphic-control",
	KindComment:        "comment",
	KindPlainText:      "plain-text",
	KindApplication:    "application",
	KindNetscape:       "netscape",
	KindUnknown:        "unknown-extension",
	KindImage:          "image",
	KindTrailer:        "trailer",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Block is one parsed record. Switch on the concrete type (or Kind) to
// consume it.
type Block interface {
	Kind() Kind
	// Pos is the byte offset of the block in the stream.
	Pos() int
}

type pos struct {
	Offset int
}

func (p pos) Pos() int { return p.Offset }

// Header is the GIF signature, version and logical screen descriptor.
type Header struct {
	pos
	Signature string
	Version   string

	Width           int
	Height          int
	ColorResolution uint8
	Sorted          bool
	BackgroundIndex uint8
	PixelAspect     uint8

	// GlobalColorTable is nil when the file has none.
	GlobalColorTable color.Palette
}

func (*Header) Kind() Kind { return KindHeader }

// AspectRatio is the pixel width/height ratio, or 0 if the file does not
// say.
func (header *Header) AspectRatio() float64 {
	if header.PixelAspect == 0 {
		return 0
	}
	return (float64(header.PixelAspect) + 15) / 64
}

func (header *Header) Bounds() image.Rectangle {
	return image.Rect(0, 0, header.Width, header.Height)
}

type Disposal uint8

const (
	DisposalUnspecified Disposal = 0
	DisposalNone        Disposal = 1
	DisposalBackground  Disposal = 2
	DisposalPrevious    Disposal = 3
)

func (d Disposal) String() string {
	switch d {
	case DisposalUnspecified:
		return "unspecified"
	case DisposalNone:
		return "none"
	case DisposalBackground:
		return "background"
	case DisposalPrevious:
		return "previous"
	}
	return fmt.Sprintf("disposal(%d)", uint8(d))
}

// GraphicControl applies to the image block that follows it.
type GraphicControl struct {
	pos
	Disposal         Disposal
	UserInput        bool
	Transparent      bool
	TransparentIndex uint8
	// Delay in hundredths of a second.
	Delay uint16
}

func (*GraphicControl) Kind() Kind { return KindGraphicControl }

type Comment struct {
	pos
	Text string
}

func (*Comment) Kind() Kind { return KindComment }

// PlainText is surfaced as parsed; rendering it is up to the caller.
type PlainText struct {
	pos
	Left, Top     int
	Width, Height int
	CellWidth     uint8
	CellHeight    uint8
	Foreground    uint8
	Background    uint8
	Text          string
}

func (*PlainText) Kind() Kind { return KindPlainText }

// Application is an application extension other than NETSCAPE.
type Application struct {
	pos
	Identifier string
	AuthCode   string
	Data       []byte
}

func (*Application) Kind() Kind { return KindApplication }

// Netscape is the NETSCAPE2.0 looping extension.
type Netscape struct {
	pos
	AuthCode string
	// SubBlock is the first byte of the payload; 1 means a loop count
	// follows.
	SubBlock uint8
	// Iterations is the loop count, 0 meaning forever.
	Iterations uint16
	Data       []byte
}

func (*Netscape) Kind() Kind { return KindNetscape }

// LoopCount reports the loop count if the payload carries one.
func (ext *Netscape) LoopCount() (int, bool) {
	if ext.SubBlock != 1 || len(ext.Data) < 3 {
		return 0, false
	}
	return int(ext.Iterations), true
}

func (ext *Netscape) decode() {
	if len(ext.Data) >= 3 {
		ext.SubBlock = ext.Data[0]
		ext.Iterations = binary.LittleEndian.Uint16(ext.Data[1:3])
	}
}

// Unknown is an extension with a label this package does not interpret.
type Unknown struct {
	pos
	Label byte
	Data  []byte
}

func (*Unknown) Kind() Kind { return KindUnknown }

// Image is an image descriptor with its still-compressed data.
type Image struct {
	pos
	Left, Top     int
	Width, Height int
	Interlaced    bool
	Sorted        bool

	// LocalColorTable is nil when the image uses the global table.
	LocalColorTable color.Palette

	MinCodeSize int
	// Data is the LZW payload with sub-block framing removed.
	Data []byte
}

func (*Image) Kind() Kind { return KindImage }

func (img *Image) Rect() image.Rectangle {
	return image.Rect(img.Left, img.Top, img.Left+img.Width, img.Top+img.Height)
}

type Trailer struct {
	pos
}

func (*Trailer) Kind() Kind { return KindTrailer }
